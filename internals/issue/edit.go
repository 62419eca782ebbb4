package issue

import "slices"

// EditCommand is a partial issue update in wire shape: label names, assignee
// logins and the state string. Nil fields are left untouched.
type EditCommand struct {
	Labels    *[]string
	Assignees *[]string
	State     *State
}

func (e EditCommand) IsEmpty() bool {
	return e.Labels == nil && e.Assignees == nil && e.State == nil
}

// LocalStatePatch is the display-shape counterpart of an EditCommand, applied
// to the cached issue before the remote update completes.
type LocalStatePatch struct {
	Labels    *[]Label
	Assignees *[]User
	State     *State
}

// PatchFromEdit builds the display patch for an edit whose fields have the
// same shape on the wire and on screen. Labels and assignees are expanded to
// name-only and login-only objects.
func PatchFromEdit(e EditCommand) LocalStatePatch {
	var p LocalStatePatch
	if e.Labels != nil {
		labels := make([]Label, 0, len(*e.Labels))
		for _, name := range *e.Labels {
			labels = append(labels, Label{Name: name})
		}
		p.Labels = &labels
	}
	if e.Assignees != nil {
		users := make([]User, 0, len(*e.Assignees))
		for _, login := range *e.Assignees {
			users = append(users, User{Login: login})
		}
		p.Assignees = &users
	}
	if e.State != nil {
		s := *e.State
		p.State = &s
	}
	return p
}

// Apply returns a copy of iss with the patched fields replaced.
func (p LocalStatePatch) Apply(iss Issue) Issue {
	out := iss.Clone()
	if p.Labels != nil {
		out.Labels = slices.Clone(*p.Labels)
	}
	if p.Assignees != nil {
		out.Assignees = slices.Clone(*p.Assignees)
	}
	if p.State != nil {
		out.State = *p.State
	}
	return out
}

// Revert returns a copy of iss with every field touched by p restored from prev.
func (p LocalStatePatch) Revert(iss, prev Issue) Issue {
	out := iss.Clone()
	if p.Labels != nil {
		out.Labels = slices.Clone(prev.Labels)
	}
	if p.Assignees != nil {
		out.Assignees = slices.Clone(prev.Assignees)
	}
	if p.State != nil {
		out.State = prev.State
	}
	return out
}
