package quota

import (
	"testing"

	"tourbase/internal/entity/db"
)

func TestLimitPerPlan(t *testing.T) {
	tests := []struct {
		plan        string
		contentType ContentType
		want        int
	}{
		{PlanTrial, TypePackages, 3},
		{PlanStarter, TypePackages, 10},
		{PlanProfessional, TypeBlogs, 100},
		{PlanUnlimited, TypePackages, Unlimited},
		{"unknown-plan", TypePackages, 3},
	}

	for _, tt := range tests {
		if got := Limit(tt.plan, tt.contentType); got != tt.want {
			t.Errorf("Limit(%s, %s) = %d, want %d", tt.plan, tt.contentType, got, tt.want)
		}
	}
}

func TestCanCreateBoundary(t *testing.T) {
	// 恰好到达上限时拒绝
	decision := CanCreate(PlanTrial, TypePackages, 3)
	if decision.CanCreate {
		t.Fatal("expected creation to be denied at the limit")
	}
	if decision.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", decision.Remaining)
	}

	// 上限以下允许
	decision = CanCreate(PlanTrial, TypePackages, 2)
	if !decision.CanCreate {
		t.Fatal("expected creation to be allowed below the limit")
	}
	if decision.Remaining != 1 {
		t.Fatalf("expected remaining 1, got %d", decision.Remaining)
	}

	// 用量异常超过上限也不会出现负剩余
	decision = CanCreate(PlanTrial, TypePackages, 10)
	if decision.CanCreate || decision.Remaining != 0 {
		t.Fatalf("expected denied with remaining 0, got %+v", decision)
	}
}

func TestCanCreateUnlimited(t *testing.T) {
	decision := CanCreate(PlanUnlimited, TypeBlogs, 100000)
	if !decision.CanCreate {
		t.Fatal("expected unlimited plan to always allow creation")
	}
	if decision.Limit != Unlimited || decision.Remaining != Unlimited {
		t.Fatalf("expected unlimited markers, got %+v", decision)
	}
}

func TestUsageReadsAccountCounters(t *testing.T) {
	account := &db.Account{
		UsagePackages:     4,
		UsageDestinations: 2,
		UsageTestimonials: 7,
	}

	if got := Usage(account, TypePackages); got != 4 {
		t.Errorf("expected packages usage 4, got %d", got)
	}
	if got := Usage(account, TypeDestinations); got != 2 {
		t.Errorf("expected destinations usage 2, got %d", got)
	}
	if got := Usage(account, TypeTestimonials); got != 7 {
		t.Errorf("expected testimonials usage 7, got %d", got)
	}
	if got := Usage(nil, TypePackages); got != 0 {
		t.Errorf("expected nil account usage 0, got %d", got)
	}
}

func TestColumnMapping(t *testing.T) {
	tests := []struct {
		contentType ContentType
		want        string
	}{
		{TypePackages, "usage_packages"},
		{TypeDestinations, "usage_destinations"},
		{TypeActivities, "usage_activities"},
		{TypeBlogs, "usage_blogs"},
		{TypeTeamMembers, "usage_team_members"},
		{TypeTestimonials, "usage_testimonials"},
		{ContentType("bogus"), ""},
	}

	for _, tt := range tests {
		if got := tt.contentType.Column(); got != tt.want {
			t.Errorf("Column(%s) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
