package domain

// Destination is immutable catalog data; Name is the unique key.
type Destination struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"` // per guest, per night
	Region string  `json:"region"`
	Image  string  `json:"image"`
}

// City returns the part of the name before the first comma ("Paris" for "Paris, France").
func (d Destination) City() string {
	for i := 0; i < len(d.Name); i++ {
		if d.Name[i] == ',' {
			return d.Name[:i]
		}
	}
	return d.Name
}

type Attraction struct {
	Title string `json:"title"`
	Image string `json:"img"`
}

type DestinationDetails struct {
	Short       string       `json:"short"`
	Sites       []string     `json:"sites"`
	Attractions []Attraction `json:"attractions"`
	Likes       string       `json:"likes"`
}

type Accommodation struct {
	Residence string `json:"residence"`
	RoomType  string `json:"roomType"`
	Amenities string `json:"amenities"`
	Food      string `json:"food"`
	Meals     string `json:"meals"`
}

type Coupon struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"` // fraction in (0,1)
	Description string  `json:"description"`
}
