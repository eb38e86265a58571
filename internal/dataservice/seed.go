// AngelaMos | 2026
// seed.go

package dataservice

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/neolab-storefront/internal/model"
)

const (
	DefaultUserID = "u1"
	AdminUserID   = "a1"
)

func SeedProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Neo-Tokyo Cyberdeck",
			Description: "A cyberpunk inspired deck featuring neon inks and futuristic pips. Perfect for cardistry.",
			Price:       decimal.RequireFromString("18.00"),
			Category:    model.CategoryCardistry,
			Color:       model.ColorNeon,
			Image:       "https://picsum.photos/400/600?random=1",
			Stock:       50,
			Rating:      4.8,
			Reviews:     124,
			IsNew:       true,
		},
		{
			ID:          "2",
			Name:        "Midnight Alchemist",
			Description: "Deep blacks and metallic gold foil. Designed for the mysterious magician.",
			Price:       decimal.RequireFromString("25.00"),
			Category:    model.CategoryMagic,
			Color:       model.ColorBlack,
			Image:       "https://picsum.photos/400/600?random=2",
			Stock:       20,
			Rating:      4.9,
			Reviews:     89,
		},
		{
			ID:          "3",
			Name:        "Solar Flare Edition",
			Description: "Bursting with orange and red gradients. Handling is buttery smooth.",
			Price:       decimal.RequireFromString("15.00"),
			Category:    model.CategoryCardistry,
			Color:       model.ColorRed,
			Image:       "https://picsum.photos/400/600?random=3",
			Stock:       100,
			Rating:      4.5,
			Reviews:     45,
		},
		{
			ID:          "4",
			Name:        "Royal Reserve: White",
			Description: "Minimalist luxury. Heavy stock paper with an air-cushion finish.",
			Price:       decimal.RequireFromString("35.00"),
			Category:    model.CategoryCollector,
			Color:       model.ColorWhite,
			Image:       "https://picsum.photos/400/600?random=4",
			Stock:       5,
			Rating:      5.0,
			Reviews:     12,
		},
		{
			ID:          "5",
			Name:        "Abyss Walker",
			Description: "Inspired by the deep sea. Blue bioluminescent patterns.",
			Price:       decimal.RequireFromString("18.00"),
			Category:    model.CategoryCardistry,
			Color:       model.ColorBlue,
			Image:       "https://picsum.photos/400/600?random=5",
			Stock:       60,
			Rating:      4.7,
			Reviews:     67,
		},
		{
			ID:          "6",
			Name:        "Prestige Close-Up Pad",
			Description: "Professional grade close-up pad for card magic and coin tricks.",
			Price:       decimal.RequireFromString("45.00"),
			Category:    model.CategoryAccessories,
			Color:       model.ColorBlack,
			Image:       "https://picsum.photos/400/600?random=6",
			Stock:       15,
			Rating:      4.6,
			Reviews:     30,
		},
		{
			ID:          "7",
			Name:        "Golden Era",
			Description: "Vintage style with modern finish. Gold metallic ink.",
			Price:       decimal.RequireFromString("22.00"),
			Category:    model.CategoryCollector,
			Color:       model.ColorGold,
			Image:       "https://picsum.photos/400/600?random=7",
			Stock:       12,
			Rating:      4.8,
			Reviews:     55,
		},
		{
			ID:          "8",
			Name:        "Cyber Mat 3000",
			Description: "LED lit close-up pad with rechargeable battery.",
			Price:       decimal.RequireFromString("85.00"),
			Category:    model.CategoryAccessories,
			Color:       model.ColorNeon,
			Image:       "https://picsum.photos/400/600?random=8",
			Stock:       8,
			Rating:      4.2,
			Reviews:     10,
		},
	}
}

// SeedUsers returns the default shopper followed by the admin account.
func SeedUsers() []model.User {
	return []model.User{
		{
			ID:       DefaultUserID,
			Name:     "Alex Rivera",
			Email:    "alex@neolab.com",
			Role:     model.RoleUser,
			Wishlist: []string{"2", "4"},
			Points:   340,
		},
		{
			ID:       AdminUserID,
			Name:     "Neo Admin",
			Email:    "admin@neolab.com",
			Role:     model.RoleAdmin,
			Wishlist: []string{},
			Points:   0,
		},
	}
}
