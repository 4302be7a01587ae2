// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import "strings"

// infraTagWords are infrastructure terms the model sometimes emits that
// have no place in a research-topic tag list.
var infraTagWords = []string{"backend", "api", "server", "database"}

// fallbackTags supplies a usable tag set when the model returns fewer
// than three tags, keyed by a substring of the classification.
var fallbackTags = []struct {
	match string
	tags  []string
}{
	{"Computer Vision", []string{"Computer Vision", "Object Detection", "Deep Learning", "Image Processing", "Neural Networks"}},
	{"Reinforcement Learning", []string{"Artificial Intelligence", "Machine Learning", "Neural Networks", "Reinforcement Learning", "Deep Learning"}},
	{"Artificial Intelligence", []string{"Artificial Intelligence", "Machine Learning", "Neural Networks", "Reinforcement Learning", "Deep Learning"}},
	{"Underwater", []string{"Underwater Vision", "Object Detection", "Spiking Neural Networks", "Energy Efficiency", "Computer Vision"}},
}

// parseClassification extracts the field and tag list from the
// line-oriented classification response.
func parseClassification(response string) (classification string, tags []string) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Classification:"):
			classification = strings.TrimSpace(strings.TrimPrefix(line, "Classification:"))
			classification = strings.Trim(classification, "[]")
			classification = strings.TrimSpace(classification)
		case strings.HasPrefix(line, "Tags:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "Tags:"))
			for _, tag := range strings.Split(raw, ",") {
				tag = strings.TrimSpace(strings.Trim(strings.TrimSpace(tag), "[]"))
				if tag != "" {
					tags = append(tags, tag)
				}
			}
		}
	}

	if len(tags) < 3 {
		for _, fb := range fallbackTags {
			if strings.Contains(classification, fb.match) {
				tags = fb.tags
				break
			}
		}
	}

	tags = dropInfraTags(dedupTags(tags))
	return classification, tags
}

// dedupTags removes duplicates, keeping first occurrence order.
func dedupTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// dropInfraTags filters out tags naming software infrastructure.
func dropInfraTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		infra := false
		for _, word := range infraTagWords {
			if strings.Contains(lower, word) {
				infra = true
				break
			}
		}
		if !infra {
			out = append(out, tag)
		}
	}
	return out
}

// cleanSummary converts the model's Markdown-ish summary to the HTML
// fragment the report embeds: headings, bold spans, rules, and
// paragraphs. Anything it does not recognize passes through as text
// inside a paragraph.
func cleanSummary(text string) string {
	// Stray blockquote tags show up occasionally; drop them.
	text = strings.ReplaceAll(text, "<blockquote>", "")
	text = strings.ReplaceAll(text, "</blockquote>", "")

	var (
		out       []string
		paragraph []string
	)
	flush := func() {
		if len(paragraph) > 0 {
			out = append(out, "<p>"+strings.Join(paragraph, " ")+"</p>")
			paragraph = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "### "):
			flush()
			out = append(out, "<h3>"+boldSpans(strings.TrimPrefix(line, "### "))+"</h3>")
		case strings.HasPrefix(line, "## "):
			flush()
			out = append(out, "<h2>"+boldSpans(strings.TrimPrefix(line, "## "))+"</h2>")
		case strings.HasPrefix(line, "# "):
			flush()
			out = append(out, "<h2>"+boldSpans(strings.TrimPrefix(line, "# "))+"</h2>")
		case line == "---":
			flush()
			out = append(out, "<hr>")
		default:
			paragraph = append(paragraph, boldSpans(line))
		}
	}
	flush()

	return strings.Join(out, "\n")
}

// cleanTranslation trims the framing the model sometimes echoes back
// around the translated abstract.
func cleanTranslation(text string) string {
	for _, marker := range []string{"번역 규칙", "번역 특징", "---"} {
		if idx := strings.Index(text, marker); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// boldSpans converts **text** pairs to <strong> spans. An unmatched **
// is left alone.
func boldSpans(line string) string {
	var b strings.Builder
	open := false
	for {
		idx := strings.Index(line, "**")
		if idx < 0 {
			break
		}
		b.WriteString(line[:idx])
		if open {
			b.WriteString("</strong>")
		} else {
			b.WriteString("<strong>")
		}
		open = !open
		line = line[idx+2:]
	}
	b.WriteString(line)
	s := b.String()
	if open {
		// The last marker had no closing pair; undo its tag.
		i := strings.LastIndex(s, "<strong>")
		s = s[:i] + "**" + s[i+len("<strong>"):]
	}
	return s
}
