package models

// Districts is the fixed set of administrative districts a user can belong to.
var Districts = []string{
	"Ampara",
	"Anuradhapura",
	"Badulla",
	"Batticaloa",
	"Colombo",
	"Galle",
	"Gampaha",
	"Hambantota",
	"Jaffna",
	"Kalutara",
	"Kandy",
	"Kegalle",
	"Kilinochchi",
	"Kurunegala",
	"Mannar",
	"Matale",
	"Matara",
	"Monaragala",
	"Mullaitivu",
	"Nuwara Eliya",
	"Polonnaruwa",
	"Puttalam",
	"Ratnapura",
	"Trincomalee",
	"Vavuniya",
}

var districtSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Districts))
	for _, d := range Districts {
		set[d] = struct{}{}
	}
	return set
}()

func IsDistrict(name string) bool {
	_, ok := districtSet[name]
	return ok
}
