package member

import "github.com/dmitrymomot/sessionkit/pkg/session"

// Member is the demo payload stored in a session's attribute bag. It has no
// lifecycle of its own: it is written through to the session on every
// mutation and reconstructed from attributes on read.
type Member struct {
	ID          string `json:"id"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// Attribute names under which the member fields are stored.
const (
	attrID          = "id"
	attrPassword    = "password"
	attrPhoneNumber = "phoneNumber"
)

// attributes returns the member as a session attribute map.
func (m Member) attributes() map[string]any {
	return map[string]any{
		attrID:          m.ID,
		attrPassword:    m.Password,
		attrPhoneNumber: m.PhoneNumber,
	}
}

// memberFromSession reconstructs a member from session attributes. All three
// fields are required; a session that never saw a join has none of them and
// is reported as session.ErrAttributeNotFound.
func memberFromSession(sess *session.Session) (Member, error) {
	id, err := sess.GetRequired(attrID)
	if err != nil {
		return Member{}, err
	}
	password, err := sess.GetRequired(attrPassword)
	if err != nil {
		return Member{}, err
	}
	phone, err := sess.GetRequired(attrPhoneNumber)
	if err != nil {
		return Member{}, err
	}

	m := Member{}
	m.ID, _ = id.(string)
	m.Password, _ = password.(string)
	m.PhoneNumber, _ = phone.(string)
	return m, nil
}
