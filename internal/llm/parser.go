package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sigkit/internal/domain/realign"
)

type ParserKind int

const (
	// ParserDefault returns the whole answer as one value, optionally
	// lowercased and checked against expected labels.
	ParserDefault ParserKind = iota
	// ParserSplit realigns separator-delimited fragments into the source.
	ParserSplit
	// ParserSegment realigns boundary-marker-wrapped fragments into the
	// source.
	ParserSegment
)

func (k ParserKind) String() string {
	switch k {
	case ParserDefault:
		return "default"
	case ParserSplit:
		return "split"
	case ParserSegment:
		return "segment"
	default:
		return fmt.Sprintf("ParserKind(%d)", int(k))
	}
}

// ParseParserKind maps a parser name to its variant.
func ParseParserKind(s string) (ParserKind, error) {
	switch s {
	case "default", "":
		return ParserDefault, nil
	case "split":
		return ParserSplit, nil
	case "segment":
		return ParserSegment, nil
	default:
		return 0, fmt.Errorf("parser kind should be default, split or segment, got %q", s)
	}
}

// ParserSpec carries the per-kind options from an instruction file.
type ParserSpec struct {
	Kind           ParserKind
	StartFlag      string
	Separator      string
	LeftSeparator  string
	RightSeparator string
	// SourceField names the input-record field holding the text the
	// generation segments. Defaults to "text_to_segment".
	SourceField string
	// Default-parser options.
	ToLower   bool
	Expect    []string
	OnFailure string
}

// Parser turns a raw generation plus its input record into the parsed
// output values. Anomalies (reconstruction mismatches, unexpected
// labels) are logged and never abort parsing.
type Parser struct {
	spec ParserSpec
	log  *zap.Logger
}

func NewParser(spec ParserSpec, log *zap.Logger) (*Parser, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if spec.SourceField == "" {
		spec.SourceField = "text_to_segment"
	}
	switch spec.Kind {
	case ParserDefault:
	case ParserSplit:
		if spec.Separator == "" {
			return nil, fmt.Errorf("split parser requires a separator")
		}
	case ParserSegment:
		if spec.LeftSeparator == "" || spec.RightSeparator == "" {
			return nil, fmt.Errorf("segment parser requires left and right separators")
		}
	default:
		return nil, fmt.Errorf("unknown parser kind %v", spec.Kind)
	}
	return &Parser{spec: spec, log: log}, nil
}

// Parse dispatches on the parser kind.
func (p *Parser) Parse(generation string, data map[string]string) ([]string, error) {
	switch p.spec.Kind {
	case ParserDefault:
		return []string{p.parseDefault(generation)}, nil
	case ParserSplit:
		source, err := p.source(data)
		if err != nil {
			return nil, err
		}
		res := realign.Split(generation, source, p.spec.Separator, p.spec.StartFlag)
		p.report(generation, source, res)
		return res.Segments, nil
	case ParserSegment:
		source, err := p.source(data)
		if err != nil {
			return nil, err
		}
		res := realign.Markers(generation, source, p.spec.LeftSeparator, p.spec.RightSeparator, p.spec.StartFlag)
		p.report(generation, source, res)
		return res.Segments, nil
	default:
		return nil, fmt.Errorf("unknown parser kind %v", p.spec.Kind)
	}
}

func (p *Parser) source(data map[string]string) (string, error) {
	source, ok := data[p.spec.SourceField]
	if !ok {
		return "", fmt.Errorf("input record has no %q field", p.spec.SourceField)
	}
	return source, nil
}

func (p *Parser) parseDefault(generation string) string {
	answer := generation
	if p.spec.StartFlag != "" {
		if i := strings.Index(answer, p.spec.StartFlag); i >= 0 {
			answer = answer[i+len(p.spec.StartFlag):]
		}
	}
	answer = strings.TrimSpace(answer)
	if p.spec.ToLower {
		answer = strings.ToLower(answer)
	}
	if len(p.spec.Expect) > 0 && !contains(p.spec.Expect, answer) {
		p.log.Warn("problematic generation",
			zap.String("generation", generation),
			zap.String("parsed", answer),
			zap.Strings("expected", p.spec.Expect),
		)
		if p.spec.OnFailure != "" {
			return p.spec.OnFailure
		}
	}
	return answer
}

// report surfaces the reconstruction-vs-fragments comparison: a
// mismatch is a data-quality warning for whoever curates model output,
// a match is only worth seeing when debugging.
func (p *Parser) report(generation, source string, res realign.Result) {
	if !res.Aligned() {
		p.log.Warn("problematic generation",
			zap.String("generation", generation),
			zap.String("source", source),
			zap.Strings("fragments", res.Fragments),
			zap.Strings("parsed", res.Segments),
		)
		return
	}
	p.log.Debug("well parsed generation",
		zap.String("generation", generation),
		zap.Strings("parsed", res.Segments),
	)
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
