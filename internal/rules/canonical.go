package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Canonical serialization of findings for golden comparison and stable
// reporting.
//
// Findings have a fixed shape, so canonical form is hand-assembled:
// fields in a fixed order, strings NFC-normalized, no HTML escaping, and
// findings sorted by (entity key, aim seq, rule ID, params). Two batches
// that produced the same findings serialize byte-identically regardless
// of worker scheduling.

// MarshalCanonical serializes findings to canonical JSON.
func MarshalCanonical(findings []Finding) ([]byte, error) {
	ordered := make([]Finding, len(findings))
	copy(ordered, findings)
	SortCanonical(ordered)

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, f := range ordered {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := marshalFinding(&buf, f); err != nil {
			return nil, fmt.Errorf("finding[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// SortCanonical orders findings by (entity key, aim seq, rule ID,
// params). Entity-level findings sort before delivery-scoped ones for
// the same entity.
func SortCanonical(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.EntityKey != b.EntityKey {
			return a.EntityKey < b.EntityKey
		}
		as, bs := aimSeqOrd(a), aimSeqOrd(b)
		if as != bs {
			return as < bs
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return paramKey(a) < paramKey(b)
	})
}

func aimSeqOrd(f Finding) int {
	if f.AimSeqNumber == nil {
		return -1
	}
	return *f.AimSeqNumber
}

func paramKey(f Finding) string {
	var buf bytes.Buffer
	for _, p := range f.Params {
		buf.WriteString(p.Name)
		buf.WriteByte('=')
		buf.WriteString(p.Value)
		buf.WriteByte(';')
	}
	return buf.String()
}

func marshalFinding(buf *bytes.Buffer, f Finding) error {
	buf.WriteByte('{')

	buf.WriteString(`"rule_id":`)
	if err := writeCanonicalString(buf, f.RuleID); err != nil {
		return err
	}

	buf.WriteString(`,"entity_key":`)
	if err := writeCanonicalString(buf, f.EntityKey); err != nil {
		return err
	}

	if f.AimSeqNumber != nil {
		fmt.Fprintf(buf, `,"aim_seq_number":%d`, *f.AimSeqNumber)
	}

	buf.WriteString(`,"params":[`)
	for i, p := range f.Params {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"name":`)
		if err := writeCanonicalString(buf, p.Name); err != nil {
			return err
		}
		buf.WriteString(`,"value":`)
		if err := writeCanonicalString(buf, p.Value); err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")

	return nil
}

// writeCanonicalString writes a JSON string with NFC normalization and
// HTML escaping disabled, so < > & survive verbatim in golden files.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}

	// json.Encoder adds a trailing newline, drop it
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}
