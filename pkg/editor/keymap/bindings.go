package keymap

// DefaultBindings returns the default key bindings for the schedule editor.
// Bindings are organized by context and follow vim conventions where applicable.
func DefaultBindings() []Binding {
	return []Binding{
		// ============================================================
		// GLOBAL BINDINGS
		// ============================================================
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},

		// ============================================================
		// MAIN BINDINGS
		// Active when no field has focus and no dialog is open
		// ============================================================
		{Key: "q", Command: CmdQuit, Context: ContextMain, Description: "Quit"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextMain, Description: "Toggle help"},
		{Key: "ctrl+r", Command: CmdRefresh, Context: ContextMain, Description: "Reload schedules"},

		// Cursor movement
		{Key: "j", Command: CmdCursorDown, Context: ContextMain, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextMain, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextMain, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextMain, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextMain, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextMain, Description: "Go to bottom"},
		{Key: "tab", Command: CmdNextField, Context: ContextMain, Description: "Next field"},
		{Key: "l", Command: CmdNextField, Context: ContextMain, Description: "Next field"},
		{Key: "right", Command: CmdNextField, Context: ContextMain, Description: "Next field"},
		{Key: "shift+tab", Command: CmdPrevField, Context: ContextMain, Description: "Previous field"},
		{Key: "h", Command: CmdPrevField, Context: ContextMain, Description: "Previous field"},
		{Key: "left", Command: CmdPrevField, Context: ContextMain, Description: "Previous field"},

		// Actions
		{Key: "enter", Command: CmdSelect, Context: ContextMain, Description: "Expand / edit field"},
		{Key: "esc", Command: CmdClose, Context: ContextMain, Description: "Collapse schedule"},
		{Key: "space", Command: CmdToggleDay, Context: ContextMain, Description: "Toggle day"},
		{Key: "a", Command: CmdAddFrame, Context: ContextMain, Description: "Add time frame after"},
		{Key: "+", Command: CmdAddFrame, Context: ContextMain, Description: "Add time frame after"},
		{Key: "x", Command: CmdRemoveFrame, Context: ContextMain, Description: "Remove time frame"},
		{Key: "-", Command: CmdRemoveFrame, Context: ContextMain, Description: "Remove time frame"},
		{Key: "n", Command: CmdNewSchedule, Context: ContextMain, Description: "New schedule"},
		{Key: "D", Command: CmdDeleteSchedule, Context: ContextMain, Description: "Delete schedule"},
		{Key: "r", Command: CmdRetrySync, Context: ContextMain, Description: "Retry failed save"},

		// ============================================================
		// EDITING BINDINGS
		// Keys not listed here are typed into the focused field
		// ============================================================
		{Key: "enter", Command: CmdCommitField, Context: ContextEditing, Description: "Leave field"},
		{Key: "esc", Command: CmdCancelEdit, Context: ContextEditing, Description: "Leave field"},
		{Key: "tab", Command: CmdNextField, Context: ContextEditing, Description: "Next field"},
		{Key: "shift+tab", Command: CmdPrevField, Context: ContextEditing, Description: "Previous field"},
		{Key: "up", Command: CmdCursorUp, Context: ContextEditing, Description: "Leave field, move up"},
		{Key: "down", Command: CmdCursorDown, Context: ContextEditing, Description: "Leave field, move down"},

		// ============================================================
		// CONFIRM BINDINGS
		// ============================================================
		{Key: "y", Command: CmdConfirm, Context: ContextConfirm, Description: "Confirm"},
		{Key: "enter", Command: CmdConfirm, Context: ContextConfirm, Description: "Confirm"},
		{Key: "n", Command: CmdCancel, Context: ContextConfirm, Description: "Cancel"},
		{Key: "esc", Command: CmdCancel, Context: ContextConfirm, Description: "Cancel"},

		// ============================================================
		// HELP BINDINGS
		// ============================================================
		{Key: "?", Command: CmdToggleHelp, Context: ContextHelp, Description: "Close help"},
		{Key: "esc", Command: CmdToggleHelp, Context: ContextHelp, Description: "Close help"},
		{Key: "q", Command: CmdToggleHelp, Context: ContextHelp, Description: "Close help"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}
