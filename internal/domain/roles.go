package domain

type Role string

const (
	// Individual job seekers register with personal details only.
	RoleIndividual Role = "individual"
	// Company accounts carry an additional company details payload.
	RoleCompany Role = "company"
)

func IsValidRole(r string) bool {
	return r == string(RoleIndividual) || r == string(RoleCompany)
}
