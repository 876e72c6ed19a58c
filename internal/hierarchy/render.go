package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// walk visits the subtree rooted at root depth-first, parents before
// children, children in load order. depth is relative to root. The zero
// Ref walks every location.
func (s *Store) walk(root Ref, visit func(e Entity, depth int)) error {
	if root.IsZero() {
		for _, id := range s.order[KindLocation] {
			s.walkFrom(Ref{Kind: KindLocation, ID: id}, 0, visit)
		}
		return nil
	}
	if !s.exists(root) {
		if !root.Kind.Valid() {
			return newValidationError("kind", root.Kind.String(), kindNames())
		}
		return newNotFoundID(root.Kind, root.ID)
	}
	s.walkFrom(root, 0, visit)
	return nil
}

func (s *Store) walkFrom(ref Ref, depth int, visit func(e Entity, depth int)) {
	e, err := s.Get(ref.Kind, ref.ID)
	if err != nil {
		return
	}
	visit(e, depth)
	child, ok := ref.Kind.Child()
	if !ok {
		return
	}
	for _, id := range s.children[ref] {
		s.walkFrom(Ref{Kind: child, ID: id}, depth+1, visit)
	}
}

// RenderText renders the subtree rooted at root as indented plain text,
// two spaces per level, one entity per line. The zero Ref renders the
// whole hierarchy.
func (s *Store) RenderText(root Ref) (string, error) {
	var b strings.Builder
	err := s.walk(root, func(e Entity, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(textLine(e))
		b.WriteByte('\n')
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func textLine(e Entity) string {
	switch v := e.(type) {
	case Location:
		return fmt.Sprintf("Location %d: %s", v.ID, oneLine(v.Name))
	case Application:
		return fmt.Sprintf("Application %d: %s (%s)", v.ID, oneLine(v.Name), v.Type)
	case Module:
		return fmt.Sprintf("Module %d: %s (%s)", v.ID, oneLine(v.Name), v.Type)
	case Instrumentation:
		return fmt.Sprintf("Instrumentation %d: %s [%s] key=%s thresholds=%s",
			v.ID, oneLine(v.Name), v.Type, valueKeyOrDash(v.ValueKey), thresholdText(v))
	case Asset:
		return fmt.Sprintf("Asset %d: %s%s", v.ID, oneLine(v.Serial), productText(v))
	}
	return oneLine(e.Label())
}

// oneLine escapes control characters so every entity renders on exactly
// one line. Labels without control characters are returned unchanged.
func oneLine(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// RenderMarkdown renders the subtree rooted at root as markdown:
// locations, applications and modules become headings, instrumentations
// and assets become nested list items. The zero Ref renders the whole
// hierarchy under a title.
func (s *Store) RenderMarkdown(root Ref) (string, error) {
	var b strings.Builder
	if root.IsZero() {
		b.WriteString("# Plant Hierarchy\n")
	}
	err := s.walk(root, func(e Entity, _ int) {
		switch v := e.(type) {
		case Location:
			fmt.Fprintf(&b, "\n## Location: %s (id %d)\n", oneLine(v.Name), v.ID)
		case Application:
			fmt.Fprintf(&b, "\n### Application: %s (id %d, %s)\n", oneLine(v.Name), v.ID, v.Type)
		case Module:
			fmt.Fprintf(&b, "\n#### Module: %s (id %d, %s)\n\n", oneLine(v.Name), v.ID, v.Type)
		case Instrumentation:
			fmt.Fprintf(&b, "- **%s** (id %d): type `%s`, key `%s`, thresholds %s\n",
				oneLine(v.Name), v.ID, v.Type, valueKeyOrDash(v.ValueKey), thresholdText(v))
		case Asset:
			fmt.Fprintf(&b, "  - Asset `%s` (id %d)%s\n", oneLine(v.Serial), v.ID, productText(v))
		}
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// SummaryText renders entity counts as an aligned plain-text block.
func (s *Store) SummaryText() string {
	sum := s.Summary()
	var b strings.Builder
	b.WriteString("PLANT HIERARCHY SUMMARY\n")
	b.WriteString(strings.Repeat("=", 23) + "\n")
	fmt.Fprintf(&b, "%-18s %5d\n", "Locations:", sum.Locations)
	fmt.Fprintf(&b, "%-18s %5d\n", "Applications:", sum.Applications)
	fmt.Fprintf(&b, "%-18s %5d\n", "Modules:", sum.Modules)
	fmt.Fprintf(&b, "%-18s %5d\n", "Instrumentations:", sum.Instrumentations)
	fmt.Fprintf(&b, "%-18s %5d\n", "Assets:", sum.Assets)
	b.WriteString(strings.Repeat("-", 24) + "\n")
	fmt.Fprintf(&b, "%-18s %5d\n", "Total:", sum.Total())
	return b.String()
}

// SummaryMarkdown renders entity counts as a markdown table.
func (s *Store) SummaryMarkdown() string {
	sum := s.Summary()
	var b strings.Builder
	b.WriteString("# Plant Hierarchy Summary\n\n")
	b.WriteString("| Component Type | Count |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Locations | %d |\n", sum.Locations)
	fmt.Fprintf(&b, "| Applications | %d |\n", sum.Applications)
	fmt.Fprintf(&b, "| Modules | %d |\n", sum.Modules)
	fmt.Fprintf(&b, "| Instrumentations | %d |\n", sum.Instrumentations)
	fmt.Fprintf(&b, "| Assets | %d |\n", sum.Assets)
	fmt.Fprintf(&b, "| **Total** | **%d** |\n", sum.Total())
	return b.String()
}

func thresholdText(i Instrumentation) string {
	switch {
	case i.HasBoth():
		return formatFloat(*i.LowerThreshold) + ".." + formatFloat(*i.UpperThreshold)
	case i.HasLower():
		return "lower " + formatFloat(*i.LowerThreshold)
	case i.HasUpper():
		return "upper " + formatFloat(*i.UpperThreshold)
	}
	return "none"
}

func productText(a Asset) string {
	parts := make([]string, 0, 2)
	if a.ProductCode != "" {
		parts = append(parts, oneLine(a.ProductCode))
	}
	if a.ProductName != "" {
		parts = append(parts, oneLine(a.ProductName))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func valueKeyOrDash(key string) string {
	if key == "" {
		return "-"
	}
	return oneLine(key)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
