package app

import (
	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
	"github.com/corey/occ/internal/domain/replacer"
)

// Scan implements socket.Service. It runs the conversion stage by stage and
// records what each stage substitutes, with offsets into that stage's input.
func (a *App) Scan(params socket.ScanParams) (socket.ScanResult, error) {
	conv, err := convert.ParseConversion(params.Conversion)
	if err != nil {
		return socket.ScanResult{}, err
	}
	result := socket.ScanResult{Conversion: conv.String()}

	if len(params.Terms) > 0 {
		m := a.newMatcher()
		if err := m.Rebuild(params.Terms); err != nil {
			return socket.ScanResult{}, err
		}
		result.Terms = m.Match(params.Text)
	}

	text := params.Text
	r := replacer.New(text)
	for _, s := range conv.Stages() {
		auto, err := a.Converter.Stage(s)
		if err != nil {
			return socket.ScanResult{}, err
		}
		input := []rune(text)
		hits := []socket.ScanHit{}
		for _, m := range auto.SearchForReplace(input) {
			hits = append(hits, socket.ScanHit{
				Start:  m.Start,
				End:    m.End,
				Source: string(input[m.Start:m.End]),
				Target: m.Value,
			})
		}
		result.Stages = append(result.Stages, socket.StageScan{Stage: s.String(), Hits: hits})
		if len(hits) > 0 {
			r.Reset(text)
			text = r.ApplyPass(auto).String()
		}
	}
	result.Output = text
	return result, nil
}
