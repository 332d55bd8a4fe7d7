package keymap

import (
	"fmt"
	"strings"
)

// helpSections lists the contexts shown in help, in display order.
var helpSections = []struct {
	Title   string
	Context Context
}{
	{"SCHEDULES", ContextMain},
	{"EDITING A FIELD", ContextEditing},
	{"DELETE CONFIRMATION", ContextConfirm},
}

// GenerateHelp renders the registered bindings as plain text, one section
// per context. Keys sharing a command are joined on one line.
func (r *Registry) GenerateHelp() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("HOURS EDITOR - Key Bindings\n")

	for _, sec := range helpSections {
		sb.WriteString("\n" + sec.Title + ":\n")

		var order []Command
		keys := make(map[Command][]string)
		desc := make(map[Command]string)
		t := r.defaults[sec.Context]
		if t == nil {
			continue
		}
		for _, b := range t.order {
			if _, seen := keys[b.Command]; !seen {
				order = append(order, b.Command)
				desc[b.Command] = b.Description
			}
			keys[b.Command] = append(keys[b.Command], b.Key)
		}
		for _, cmd := range order {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", strings.Join(keys[cmd], " / "), desc[cmd]))
		}
	}

	return sb.String()
}
