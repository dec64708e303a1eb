package intel

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
)

// Decode parses a structured report. It fails only when raw is not a JSON
// object. Each top-level group is decoded on its own; a group that is not an
// object is dropped and recorded in Issues so the rest of the report still
// renders. Inside a group a member of the wrong type costs only that member.
func Decode(raw []byte) (*Intelligence, error) {
	var groups map[string]json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, eris.Wrap(err, "intel: decode report")
	}
	if groups == nil {
		return nil, eris.New("intel: report is null")
	}

	in := &Intelligence{}

	if company, ok := present(groups, "company"); ok {
		var c CompanyOverview
		if err := in.decodeFields("company", company, &c); err != nil {
			in.drop("company", err)
		} else {
			in.Company = &c
		}
	} else {
		in.Issues = append(in.Issues, Issue{Field: "company", Reason: "missing"})
	}
	if in.Company != nil {
		for _, f := range []struct{ name, value string }{
			{"company.name", in.Company.Name},
			{"company.domain", in.Company.Domain},
			{"company.industry", in.Company.Industry},
		} {
			if f.value == "" {
				in.Issues = append(in.Issues, Issue{Field: f.name, Reason: "missing"})
			}
		}
	}

	if kpis, ok := present(groups, "kpis"); ok {
		in.decodeKPIs(kpis)
	}

	if g, ok := present(groups, "growth_metrics"); ok {
		var gm GrowthMetrics
		if err := in.decodeFields("growth_metrics", g, &gm); err != nil {
			in.drop("growth_metrics", err)
		} else {
			in.GrowthMetrics = &gm
		}
	}

	if p, ok := present(groups, "financial_projections"); ok {
		var fp FinancialProjections
		if err := in.decodeFields("financial_projections", p, &fp); err != nil {
			in.drop("financial_projections", err)
		} else {
			in.FinancialProjections = &fp
		}
	}

	if c, ok := present(groups, "competitive_landscape"); ok {
		var cl CompetitiveLandscape
		if err := in.decodeFields("competitive_landscape", c, &cl); err != nil {
			in.drop("competitive_landscape", err)
		} else {
			in.CompetitiveLandscape = &cl
		}
	}

	if d, ok := present(groups, "data_quality"); ok {
		var dq DataQuality
		if err := in.decodeFields("data_quality", d, &dq); err != nil {
			in.drop("data_quality", err)
		} else {
			in.DataQuality = &dq
		}
	}

	return in, nil
}

// decodeKPIs keeps every well-formed entry that carries a label and a value.
func (in *Intelligence) decodeKPIs(raw json.RawMessage) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		in.drop("kpis", err)
		return
	}
	for i, e := range entries {
		field := fmt.Sprintf("kpis[%d]", i)
		var k KPI
		if err := in.decodeFields(field, e, &k); err != nil {
			in.drop(field, err)
			continue
		}
		if k.Label == "" || k.Value.IsZero() {
			in.Issues = append(in.Issues, Issue{Field: field, Reason: "label and value are required"})
			continue
		}
		in.KPIs = append(in.KPIs, k)
	}
}

// decodeFields decodes the JSON object raw into dst, a pointer to a struct,
// one member at a time. A member that does not fit its field leaves the
// field unset and is recorded as prefix.member. It fails only when raw is
// not an object.
func (in *Intelligence) decodeFields(prefix string, raw json.RawMessage, dst any) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return err
	}
	if members == nil {
		return eris.New("intel: expected an object")
	}

	typ := reflect.TypeOf(dst).Elem()
	for _, key := range slices.Sorted(maps.Keys(members)) {
		one, err := json.Marshal(map[string]json.RawMessage{key: members[key]})
		if err != nil {
			in.drop(prefix+"."+key, err)
			continue
		}
		if err := json.Unmarshal(one, reflect.New(typ).Interface()); err != nil {
			in.drop(prefix+"."+key, err)
			continue
		}
		_ = json.Unmarshal(one, dst)
	}
	return nil
}

func (in *Intelligence) drop(field string, err error) {
	in.Issues = append(in.Issues, Issue{Field: field, Reason: err.Error()})
}

// present returns a group unless it is absent or JSON null.
func present(groups map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := groups[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}
