package catalog

import "wanderlust_travel/internal/domain"

var details = map[string]domain.DestinationDetails{
	"Paris, France": {
		Short: "Romantic streets, world-class museums and iconic landmarks.",
		Sites: []string{"Eiffel Tower", "Louvre Museum", "Notre-Dame Cathedral", "Montmartre"},
		Attractions: []domain.Attraction{
			{Title: "Eiffel Tower View", Image: "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=600"},
			{Title: "Louvre Courtyard", Image: "https://images.unsplash.com/photo-1504208434309-cb69f4fe52b0?w=600"},
		},
		Likes: "Liked by 1.2K",
	},
	"Santorini, Greece": {
		Short: "Cliffside villages with dazzling sunsets over the Aegean sea.",
		Sites: []string{"Oia Village", "Fira Town", "Ancient Thera", "Red Beach"},
		Attractions: []domain.Attraction{
			{Title: "Caldera Sunset", Image: "https://images.unsplash.com/photo-1523906834658-6e24ef2386f9?w=600"},
			{Title: "Whitewashed Streets", Image: "https://images.unsplash.com/photo-1570077188670-e3a8d69ac5ff?w=600"},
		},
		Likes: "Liked by 1.4K",
	},
	"Swiss Alps": {
		Short: "Snow-capped peaks, alpine lakes and outdoor adventures.",
		Sites: []string{"Jungfraujoch", "Zermatt", "Interlaken", "Lucerne Lake"},
		Attractions: []domain.Attraction{
			{Title: "Mountain Peaks", Image: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=600"},
			{Title: "Alpine Trails", Image: "https://images.unsplash.com/photo-1501785888041-af3ef285b470?w=600"},
		},
		Likes: "Liked by 2.1K",
	},
	"Dubai, UAE": {
		Short: "Modern skyline, desert dunes and luxury experiences.",
		Sites: []string{"Burj Khalifa", "Palm Jumeirah", "Dubai Marina", "Desert Safari"},
		Attractions: []domain.Attraction{
			{Title: "Marina Skyline", Image: "https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=600"},
			{Title: "Desert Dunes", Image: "https://images.unsplash.com/photo-1501785888041-af3ef285b470?w=600"},
		},
		Likes: "Liked by 1.6K",
	},
	"Maldives": {
		Short: "Turquoise waters, overwater villas and serene island life.",
		Sites: []string{"Male", "North Atolls", "Reef Diving Spots", "Resort Islands"},
		Attractions: []domain.Attraction{
			{Title: "Overwater Bungalow", Image: "https://images.unsplash.com/photo-1493976040374-85c8e12f0c0e?w=600"},
			{Title: "Coral Reefs", Image: "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=600"},
		},
		Likes: "Liked by 3.3K",
	},
	"Tokyo, Japan": {
		Short: "A vibrant blend of modern cityscapes and timeless tradition.",
		Sites: []string{"Shibuya Crossing", "Senso-ji Temple", "Meiji Shrine", "Tokyo Tower"},
		Attractions: []domain.Attraction{
			{Title: "Temple Gardens", Image: "https://images.unsplash.com/photo-1545569341-9eb8b30979d9?w=600"},
			{Title: "City Lights", Image: "https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=600"},
		},
		Likes: "Liked by 1.8K",
	},
}

var accommodations = map[string]domain.Accommodation{
	"Paris, France": {
		Residence: "5-star Luxury Boutique Hotel in the Heart of Paris, 5th Arrondissement near Notre-Dame Cathedral",
		RoomType:  "Deluxe Double Room with Eiffel Tower View",
		Amenities: "Free Wi-Fi, Air Conditioning, Premium Toiletries, 24/7 Concierge Service",
		Food:      "French cuisine at a Michelin-recommended restaurant. Breakfast includes fresh croissants, pastries and organic produce.",
		Meals:     "Breakfast Daily, Dinner (5 days), Wine Tasting Experience",
	},
	"Santorini, Greece": {
		Residence: "4-star Cliffside Luxury Resort perched on the volcanic cliffs with panoramic Caldera views",
		RoomType:  "Cave Suite with Private Infinity Pool",
		Amenities: "Spa, Infinity Pool, Beach Access, Traditional Greek Hospitality",
		Food:      "Authentic Greek Mediterranean cuisine with fresh seafood and local wines. Private beach dinners available.",
		Meals:     "Continental Breakfast, Lunch Vouchers, Dinner (3 days), Beach Picnic",
	},
	"Swiss Alps": {
		Residence: "5-star Alpine Luxury Lodge nestled in the heart of the Swiss Alps with skiing access",
		RoomType:  "Premium Mountain Suite with Fireplace & Balcony",
		Amenities: "Sauna, Hot Tub, Ski Equipment Rental, Mountain Guide Services",
		Food:      "Swiss and International cuisine. Fondue nights and hearty alpine breakfast served daily.",
		Meals:     "Full Breakfast, Packed Lunch, 4-Course Dinner, Afternoon Tea & Pastries",
	},
	"Dubai, UAE": {
		Residence: "5-star Ultra-Luxury Beachfront Palace in Dubai Marina",
		RoomType:  "Executive Suite with Marina & Beach View",
		Amenities: "Private Beach, Infinity Pool, Water Sports, Spa & Wellness Center",
		Food:      "Fine dining with Michelin-starred chefs. Middle Eastern and International cuisine available 24/7.",
		Meals:     "A la Carte Breakfast, Lunch at Pool, Dinner at Restaurants, Desert Safari Dinner",
	},
	"Maldives": {
		Residence: "5-star Overwater Bungalow Paradise with direct ocean access and pristine coral reefs",
		RoomType:  "Sunset Beach Bungalow with Private Plunge Pool",
		Amenities: "Snorkeling, Diving, Water Spa, Tropical Garden, Stilt Walkways",
		Food:      "Fresh seafood and tropical fruits. Candlelit beach dinners and underwater dining available.",
		Meals:     "Buffet Breakfast, Lunch, Dinner (5 days), Romantic Beach Dinner (1 night)",
	},
	"Tokyo, Japan": {
		Residence: "4-star Modern Luxury Hotel in the vibrant Shibuya district",
		RoomType:  "Premium City View Suite with Japanese Garden",
		Amenities: "Traditional Onsen Bath, Cultural Activities, City Guide Service, Karaoke Bar",
		Food:      "Michelin-starred Japanese and fusion cuisine. Sushi classes and ramen tours included.",
		Meals:     "Japanese Breakfast, Lunch at Local Restaurants, Dinner (4 days), Tea Ceremony Experience",
	},
}

var defaultAccommodation = domain.Accommodation{
	Residence: "4-star Premium Hotel, carefully selected for your comfort",
	RoomType:  "Deluxe Room with All Modern Amenities",
	Amenities: "Wi-Fi, Air Conditioning, 24/7 Service, Room Service",
	Food:      "Enjoy diverse cuisine at our in-house restaurant and local eateries.",
	Meals:     "Breakfast Daily, Dinner (3 days)",
}

func Details(name string) (domain.DestinationDetails, bool) {
	d, ok := details[name]
	return d, ok
}

// Accommodation falls back to a generic stay for names outside the catalog.
func Accommodation(name string) domain.Accommodation {
	if a, ok := accommodations[name]; ok {
		return a
	}
	return defaultAccommodation
}
