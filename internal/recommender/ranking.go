package recommender

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Prediction is one ranked crop.
type Prediction struct {
	Label       string  `json:"label" yaml:"label"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Ranking is ordered by descending probability. It serializes as a JSON or
// YAML mapping from label to probability whose keys appear in rank order.
type Ranking []Prediction

// Labels returns the ranked labels.
func (r Ranking) Labels() []string {
	out := make([]string, len(r))
	for i, p := range r {
		out[i] = p.Label
	}
	return out
}

// Relabel returns a copy with every label passed through fn. Probabilities
// and order are unchanged.
func (r Ranking) Relabel(fn func(string) string) Ranking {
	out := make(Ranking, len(r))
	for i, p := range r {
		out[i] = Prediction{Label: fn(p.Label), Probability: p.Probability}
	}
	return out
}

// Map returns the ranking as an unordered label to probability mapping.
func (r Ranking) Map() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, p := range r {
		out[p.Label] = p.Probability
	}
	return out
}

func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Probability)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a mapping keeping the order in which keys appear.
func (r *Ranking) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ranking must be a JSON object")
	}

	out := Ranking{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)

		var p float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("probability for %q: %w", label, err)
		}
		out = append(out, Prediction{Label: label, Probability: p})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

func (r Ranking) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range r {
		// Encode picks the tag the value resolves to, so 1 is written plain.
		value := &yaml.Node{}
		if err := value.Encode(p.Probability); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Label},
			value,
		)
	}
	return node, nil
}
