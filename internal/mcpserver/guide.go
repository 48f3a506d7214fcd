package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
)

// FieldTypesURI is the resource describing the type catalogue.
const FieldTypesURI = "fieldkit://field-types"

// FieldTypeGuide renders the catalogue as Markdown for LLM consumers.
func FieldTypeGuide() string {
	var b strings.Builder
	b.WriteString("# Field types\n\n")
	b.WriteString("A component's `type` MUST be one of the names below, spelled exactly.\n\n")
	b.WriteString("| Name | Kind | Requires options |\n|---|---|---|\n")
	for _, e := range catalogue.Entries() {
		req := "no"
		if e.RequiresOptions {
			req = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", e.Name, e.Kind, req)
	}

	keys := make([]string, len(draft.FieldOrder))
	for i, k := range draft.FieldOrder {
		keys[i] = "`" + string(k) + "`"
	}
	b.WriteString("\n## Rules\n\n")
	b.WriteString("1. Fields, in form order: " + strings.Join(keys, ", ") + ".\n")
	b.WriteString("2. `name`, `type` and `tags` are always required.\n")
	b.WriteString("3. When the type requires options, `options` is required and must hold at least one choice.\n")
	b.WriteString("4. `options` is a comma-separated list. Blank entries are dropped and each choice is trimmed. There is no escaping.\n")
	b.WriteString("5. For other types `options` is stored but ignored.\n")
	return b.String()
}
