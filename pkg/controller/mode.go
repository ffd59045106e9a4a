package controller

// Mode is the tagged create/edit variant fixed when the controller is built.
// Only a successful create moves a controller from Create to Edit.
type Mode struct {
	edit     bool
	recordID string
}

// CreateMode returns the Create variant.
func CreateMode() Mode {
	return Mode{}
}

// EditMode returns the Edit variant for id.
func EditMode(id string) Mode {
	return Mode{edit: true, recordID: id}
}

// IsCreate reports whether m is Create.
func (m Mode) IsCreate() bool { return !m.edit }

// IsEdit reports whether m is Edit.
func (m Mode) IsEdit() bool { return m.edit }

// RecordID returns the edited record id, or "" in Create mode.
func (m Mode) RecordID() string { return m.recordID }

func (m Mode) String() string {
	if m.edit {
		return "edit(" + m.recordID + ")"
	}
	return "create"
}

// Phase is the controller state machine position.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseEditing          Phase = "editing"
	PhaseSubmitting       Phase = "submitting"
	PhaseConfirmingDelete Phase = "confirming_delete"
	PhaseDeleting         Phase = "deleting"
	PhaseTerminated       Phase = "terminated"
)

func (p Phase) busy() bool {
	return p == PhaseSubmitting || p == PhaseDeleting
}
