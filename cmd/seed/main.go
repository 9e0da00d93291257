package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"webquote/internal/database"
	"webquote/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "webquote.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM quote_features")
	db.Exec("DELETE FROM quote_pages")
	db.Exec("DELETE FROM quotes")
	db.Exec("DELETE FROM feature_project_types")
	db.Exec("DELETE FROM features")
	db.Exec("DELETE FROM pages")
	db.Exec("DELETE FROM project_types")
	db.Exec("DELETE FROM users")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	salesHash, _ := bcrypt.GenerateFromPassword([]byte("sales12345"), bcrypt.DefaultCost)

	admin := domain.User{Username: "admin", Email: "admin@example.com", PasswordHash: string(adminHash), Role: domain.RoleAdmin}
	sales := domain.User{Username: "jordan", Email: "jordan@example.com", PasswordHash: string(salesHash), Role: domain.RoleUser}
	db.Create(&admin)
	db.Create(&sales)

	brochure := domain.ProjectType{Name: "Brochure Site", BasePrice: 1000, Description: "Static marketing site"}
	ecommerce := domain.ProjectType{Name: "E-Commerce", BasePrice: 3500, Description: "Online store with checkout"}
	db.Create(&brochure)
	db.Create(&ecommerce)

	flat := func(v float64) *float64 { return &v }

	seo := domain.Feature{
		Name: "SEO Setup", Category: "Marketing",
		PricingType: domain.PricingFlat, FlatPrice: flat(500),
		ForAllProjectTypes: true,
	}
	blog := domain.Feature{
		Name: "Blog", Category: "Content",
		PricingType: domain.PricingFlat, FlatPrice: flat(750), SupportsQuantity: false,
		ProjectTypeID: &brochure.ID,
	}
	integration := domain.Feature{
		Name: "Custom Integration", Category: "Development",
		PricingType: domain.PricingHourly, HourlyRate: flat(120), EstimatedHours: flat(10),
		SupportsQuantity: true,
	}
	db.Create(&seo)
	db.Create(&blog)
	db.Create(&integration)
	db.Create(&domain.FeatureProjectType{FeatureID: integration.ID, ProjectTypeID: ecommerce.ID})

	landing := domain.Page{Name: "Landing Page", PricePerPage: 200, DefaultQuantity: 1, SupportsQuantity: true, IsActive: true}
	product := domain.Page{Name: "Product Page", PricePerPage: 150, DefaultQuantity: 5, SupportsQuantity: true, IsActive: true, ProjectTypeID: &ecommerce.ID}
	db.Create(&landing)
	db.Create(&product)

	sample := domain.Quote{
		ProjectTypeID: &brochure.ID,
		ClientName:    "Acme Bakery",
		Email:         "owner@acmebakery.example",
		LeadStatus:    domain.LeadInProgress,
		CreatedBy:     sales.Username,
		Features: []domain.QuoteFeature{
			{FeatureID: seo.ID, Quantity: 1, Price: 500},
		},
		Pages: []domain.QuotePage{
			{PageID: landing.ID, Quantity: 3, Price: 600},
		},
		TotalPrice: 2100, // 1000 base + 500 + 600
	}
	db.Create(&sample)

	log.Println("Seed complete: users admin/jordan, 2 project types, 3 features, 2 pages, 1 quote")
}
