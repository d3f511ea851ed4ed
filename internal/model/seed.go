package model

import (
	"context"
	"errors"
	"strings"

	"tourbase/internal/auth"
	"tourbase/internal/config"
	"tourbase/internal/entity/db"
	"tourbase/internal/quota"
)

// SeedDemoTenant 在空库上创建一个演示租户：根账户加少量已发布内容。
// 库里已有账户时什么也不做。
func SeedDemoTenant(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil || !cfg.SeedDemoData {
		return nil
	}

	count, err := repo.CountAccounts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := strings.TrimSpace(cfg.SeedDemoPassword)
	if password == "" {
		return errors.New("SEED_DEMO_PASSWORD must be set when seeding is enabled")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	root := &db.Account{
		Name:               "Demo Tours",
		Email:              strings.ToLower(strings.TrimSpace(cfg.SeedDemoEmail)),
		PasswordHash:       hash,
		Role:               db.RoleRootUser,
		IsRootUser:         true,
		CompanyID:          cfg.DefaultCompanyID,
		TenantID:           cfg.DefaultCompanyID,
		SubscriptionPlan:   quota.PlanTrial,
		SubscriptionStatus: db.SubscriptionActive,
		IsActive:           true,
		IsVerified:         true,
	}
	if err := repo.CreateAccount(ctx, root); err != nil {
		return err
	}

	category := &db.Category{
		Name:        "Island Escapes",
		Description: "Beach and island getaways",
	}
	category.RootUserID = root.ID
	category.CreatedByID = root.ID
	category.CompanyID = root.CompanyID
	category.Slug = "island-escapes"
	category.Published = true
	if err := repo.Categories().Create(ctx, category); err != nil {
		return err
	}

	destination := &db.Destination{
		Title:       "Zanzibar",
		Country:     "Tanzania",
		Description: "White beaches and spice markets",
		Featured:    true,
	}
	destination.RootUserID = root.ID
	destination.CreatedByID = root.ID
	destination.CompanyID = root.CompanyID
	destination.Slug = "zanzibar"
	destination.Published = true
	if err := repo.Destinations().Create(ctx, destination); err != nil {
		return err
	}

	pkg := &db.Package{
		Title:      "Zanzibar Beach Week",
		CategoryID: category.ID,
		Summary:    "Seven nights on the east coast",
		Location:   "Zanzibar, Tanzania",
		Days:       8,
		Nights:     7,
		Price:      "1450",
		Highlights: []string{"Snorkelling", "Stone Town tour", "Sunset cruise"},
	}
	pkg.RootUserID = root.ID
	pkg.CreatedByID = root.ID
	pkg.CompanyID = root.CompanyID
	pkg.Slug = "zanzibar-beach-week"
	pkg.Published = true
	if err := repo.Packages().Create(ctx, pkg); err != nil {
		return err
	}
	// 演示内容计入已发布用量，保持计数一致
	if err := repo.AdjustUsage(ctx, root.ID, quota.TypePackages.Column(), 1); err != nil {
		return err
	}
	if err := repo.AdjustUsage(ctx, root.ID, quota.TypeDestinations.Column(), 1); err != nil {
		return err
	}

	return nil
}
