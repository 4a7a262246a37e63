package object

type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusUnavailable Status = "unavailable"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusUnavailable:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryTools       Category = "tools"
	CategoryElectronics Category = "electronics"
	CategorySports      Category = "sports"
	CategoryOutdoor     Category = "outdoor"
	CategoryHome        Category = "home"
	CategoryVehicles    Category = "vehicles"
	CategoryOther       Category = "other"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryTools, CategoryElectronics, CategorySports,
		CategoryOutdoor, CategoryHome, CategoryVehicles, CategoryOther:
		return true
	default:
		return false
	}
}
