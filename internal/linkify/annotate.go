package linkify

import "strings"

const boldMarker = "**"

// Annotator runs the full pipeline: WhatsApp rewrite, bold splitting and,
// inside every resulting span, scan, resolve and classify.
type Annotator struct {
	classifier *Classifier
}

// NewAnnotator creates an Annotator around a classifier.
func NewAnnotator(classifier *Classifier) *Annotator {
	return &Annotator{classifier: classifier}
}

// Classifier returns the classifier used for link destinations.
func (a *Annotator) Classifier() *Classifier {
	return a.classifier
}

// Annotate converts reply text into render tokens. Text without any bold
// span or link comes back as a single text token equal to the input.
func (a *Annotator) Annotate(text string) []Token {
	rewritten := RewriteWhatsApp(text)
	tokens := a.annotateEmphasis(rewritten)
	if len(tokens) == 0 {
		return []Token{Text(text)}
	}
	return tokens
}

// AnnotateLinks runs only the link pass over text; bold markers stay literal.
func (a *Annotator) AnnotateLinks(text string) []Token {
	tokens := a.annotateLinks(RewriteWhatsApp(text))
	if len(tokens) == 0 {
		return []Token{Text(text)}
	}
	return tokens
}

// annotateEmphasis splits text on **...** pairs. The first closing marker
// ends a span, there is no nesting, and an unterminated marker is plain
// text. Markers inside a markdown link are not bold markers.
func (a *Annotator) annotateEmphasis(text string) []Token {
	links := scanMarkdown(text)
	var out []Token
	pos := 0
	for pos < len(text) {
		open := findBoldMarker(text, pos, links)
		if open < 0 {
			break
		}
		closing := findBoldMarker(text, open+len(boldMarker), links)
		if closing < 0 {
			break
		}
		inner := text[open+len(boldMarker) : closing]
		next := closing + len(boldMarker)
		if inner == "" {
			out = append(out, a.annotateLinks(text[pos:next])...)
			pos = next
			continue
		}
		out = append(out, a.annotateLinks(text[pos:open])...)
		out = append(out, Emphasis(a.annotateLinks(inner)...))
		pos = next
	}
	out = append(out, a.annotateLinks(text[pos:])...)
	return mergeText(out)
}

func (a *Annotator) annotateLinks(text string) []Token {
	if text == "" {
		return nil
	}
	var out []Token
	pos := 0
	for _, m := range Resolve(Scan(text)) {
		if m.Start > pos {
			out = append(out, Text(text[pos:m.Start]))
		}
		link := a.classifier.Classify(m)
		if link.Destination == DestinationUnresolvable {
			out = append(out, Text(m.Source))
		} else {
			out = append(out, LinkToken(link))
		}
		pos = m.End
	}
	if pos < len(text) {
		out = append(out, Text(text[pos:]))
	}
	return mergeText(out)
}

// findBoldMarker returns the offset of the next "**" at or after from that is
// not inside one of the protected spans, or -1.
func findBoldMarker(text string, from int, protected []Match) int {
	for from < len(text) {
		idx := strings.Index(text[from:], boldMarker)
		if idx < 0 {
			return -1
		}
		idx += from
		inside := false
		for _, span := range protected {
			if idx >= span.Start && idx < span.End {
				from = span.End
				inside = true
				break
			}
		}
		if !inside {
			return idx
		}
	}
	return -1
}

// mergeText joins adjacent text tokens.
func mergeText(tokens []Token) []Token {
	if len(tokens) < 2 {
		return tokens
	}
	out := tokens[:0:0]
	for _, t := range tokens {
		if n := len(out); n > 0 && t.Kind == TokenText && out[n-1].Kind == TokenText {
			out[n-1].Text += t.Text
			continue
		}
		out = append(out, t)
	}
	return out
}
