package models

import "fmt"

// Role identifies whose balance an operation acts on: the organization
// (admin) or a specific member. It is carried explicitly through every
// balance and withdrawal operation instead of an inferred boolean.
type Role struct {
	ClientId int
	MemberId int
	Admin    bool
}

// AdminRole acts on the organization's cut. The acting admin's user id
// is recorded on withdrawals but the balance itself is organization-wide.
func AdminRole(clientId, userId int) Role {
	return Role{ClientId: clientId, MemberId: userId, Admin: true}
}

func MemberRole(clientId, memberId int) Role {
	return Role{ClientId: clientId, MemberId: memberId}
}

// Key identifies the role within its organization, used for the
// settlement lock row.
func (r Role) Key() string {
	if r.Admin {
		return "admin"
	}
	return fmt.Sprintf("member:%d", r.MemberId)
}

// RequesterId is the user id recorded on withdrawals created by this
// role. Admin withdrawals carry the acting admin's user id.
func (r Role) RequesterId() int {
	return r.MemberId
}
