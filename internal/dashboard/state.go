package dashboard

import "github.com/icemedialab/varta/internal/model"

type View string

const (
	ViewHome            View = "HOME"
	ViewProfile         View = "PROFILE"
	ViewDirectory       View = "DIRECTORY"
	ViewEmployeeProfile View = "EMPLOYEE_PROFILE"
)

// State is the ephemeral dashboard state. The pointed-to values are never
// mutated after being stored, so a shallow copy is a safe snapshot.
type State struct {
	View     View          `json:"view"`
	Loading  bool          `json:"loading"`
	Error    string        `json:"error,omitempty"`
	Report   *model.Report `json:"report,omitempty"`
	User     *model.User   `json:"user,omitempty"`
	Employee *model.User   `json:"employee,omitempty"`
}

func (s State) LoggedIn() bool {
	return s.User != nil
}
