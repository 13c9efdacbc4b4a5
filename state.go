package delay

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// State holds the four persisted parameters.
type State struct {
	Delay    float64 // ms
	Feedback float64 // percent
	Mix      float64 // percent
	Bypass   bool
}

// DefaultState returns the parameter defaults.
func DefaultState() State {
	return State{
		Delay:    defaultDelayMs,
		Feedback: defaultFeedbackPct,
		Mix:      defaultMixPct,
	}
}

// Clamped returns s with every value forced into its parameter range.
func (s State) Clamped() State {
	s.Delay = paramSpecs[ParamDelay].Clamp(s.Delay)
	s.Feedback = paramSpecs[ParamFeedback].Clamp(s.Feedback)
	s.Mix = paramSpecs[ParamMix].Clamp(s.Mix)
	return s
}

// stateDocument is the saved form:
//
//	<Root><Delay>250</Delay><Feedback>40</Feedback><Mix>50</Mix><Bypass>0</Bypass></Root>
//
// Fields are pointers so missing elements can be told apart from zeros.
type stateDocument struct {
	XMLName  xml.Name `xml:"Root"`
	Delay    *string  `xml:"Delay"`
	Feedback *string  `xml:"Feedback"`
	Mix      *string  `xml:"Mix"`
	Bypass   *string  `xml:"Bypass"`
}

// EncodeState writes s as an XML state document.
func EncodeState(w io.Writer, s State) error {
	s = s.Clamped()
	bypass := 0.0
	if s.Bypass {
		bypass = bypassOn
	}

	doc := stateDocument{
		Delay:    formatValue(s.Delay),
		Feedback: formatValue(s.Feedback),
		Mix:      formatValue(s.Mix),
		Bypass:   formatValue(bypass),
	}

	if err := xml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return nil
}

// DecodeState reads an XML state document on top of base. Elements that are
// missing keep the value from base and unknown elements are ignored. Values
// are clamped to their ranges; a non-zero Bypass engages bypass.
func DecodeState(r io.Reader, base State) (State, error) {
	var doc stateDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return base, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	s := base
	fields := []struct {
		id   ParamID
		text *string
		dst  *float64
	}{
		{ParamDelay, doc.Delay, &s.Delay},
		{ParamFeedback, doc.Feedback, &s.Feedback},
		{ParamMix, doc.Mix, &s.Mix},
	}
	for _, f := range fields {
		if f.text == nil {
			continue
		}
		v, err := parseValue(f.id, *f.text)
		if err != nil {
			return base, err
		}
		*f.dst = v
	}

	if doc.Bypass != nil {
		v, err := parseValue(ParamBypass, *doc.Bypass)
		if err != nil {
			return base, err
		}
		s.Bypass = v != 0
	}

	return s.Clamped(), nil
}

// SaveState writes the processor's current parameters.
func (p *Processor) SaveState(w io.Writer) error {
	return EncodeState(w, p.State())
}

// LoadState reads a state document and applies it. Parameters missing from
// the document keep their current values.
func (p *Processor) LoadState(r io.Reader) error {
	s, err := DecodeState(r, p.State())
	if err != nil {
		return err
	}
	p.SetState(s)
	return nil
}

func formatValue(v float64) *string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	return &s
}

func parseValue(id ParamID, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, id, err)
	}
	return v, nil
}
