package seeders

var sectorsData = []struct {
	Name string
	Code string
}{
	{Name: "Protocol", Code: "PRT"},
	{Name: "Finance", Code: "FIN"},
	{Name: "Legal", Code: "LEG"},
	{Name: "Archive", Code: "ARC"},
	{Name: "Human Resources", Code: "HR"},
}

// usersData passwords come from config; admin accounts use the admin one.
var usersData = []struct {
	Username string
	Sector   string
	Role     string
	Level    string
}{
	{Username: "admin", Sector: "Protocol", Role: "ADMIN", Level: "WRITE"},
	{Username: "protocol.clerk", Sector: "Protocol", Role: "USER", Level: "WRITE"},
	{Username: "finance.clerk", Sector: "Finance", Role: "USER", Level: "WRITE"},
	{Username: "legal.clerk", Sector: "Legal", Role: "USER", Level: "WRITE"},
	{Username: "archive.clerk", Sector: "Archive", Role: "USER", Level: "WRITE"},
	{Username: "auditor", Sector: "Protocol", Role: "ADMIN", Level: "READ"},
}
