package identity

// Role is the single role a shop user holds
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleCashier      Role = "cashier"
	RoleTechnician   Role = "technician"
	RoleCustomerCare Role = "customer_care"
)

// Permission codes checked by the HTTP layer
const (
	PermSalesCreate     = "sales:create"
	PermSalesRead       = "sales:read"
	PermDailyClose      = "reports:daily-close"
	PermRepairsManage   = "repairs:manage"
	PermWhatsAppManage  = "whatsapp:manage"
	PermWhatsAppSend    = "whatsapp:send"
	PermBackupManage    = "backup:manage"
	PermInventoryManage = "inventory:manage"
	PermCustomersManage = "customers:manage"
)

// AllPermissions lists every permission code
var AllPermissions = []string{
	PermSalesCreate,
	PermSalesRead,
	PermDailyClose,
	PermRepairsManage,
	PermWhatsAppManage,
	PermWhatsAppSend,
	PermBackupManage,
	PermInventoryManage,
	PermCustomersManage,
}

var rolePermissions = map[Role][]string{
	RoleAdmin: AllPermissions,
	RoleManager: {
		PermSalesCreate, PermSalesRead, PermDailyClose, PermRepairsManage,
		PermWhatsAppManage, PermWhatsAppSend, PermInventoryManage, PermCustomersManage,
	},
	RoleCashier:      {PermSalesCreate, PermSalesRead, PermCustomersManage},
	RoleTechnician:   {PermRepairsManage, PermSalesRead},
	RoleCustomerCare: {PermWhatsAppSend, PermCustomersManage, PermSalesRead},
}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Permissions returns a copy of the role's permission codes
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission checks whether the role grants the permission
func (r Role) HasPermission(code string) bool {
	for _, p := range rolePermissions[r] {
		if p == code {
			return true
		}
	}
	return false
}
