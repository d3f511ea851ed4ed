// Package quota 按订阅套餐限制每个根账户可发布的内容数量。
// 草稿不计入用量，只有已发布条目的创建/删除/上下架会调整计数。
package quota

import (
	"tourbase/internal/entity/db"
)

// ContentType 标识参与配额统计的内容类型。
type ContentType string

const (
	TypePackages     ContentType = "packages"
	TypeDestinations ContentType = "destinations"
	TypeActivities   ContentType = "activities"
	TypeBlogs        ContentType = "blogs"
	TypeTeamMembers  ContentType = "team_members"
	TypeTestimonials ContentType = "testimonials"
)

// 订阅套餐档位。PlanUnlimited 不设任何上限。
const (
	PlanTrial        = "trial"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanUnlimited    = "unlimited"
)

// Unlimited 表示该类型无上限。
const Unlimited = -1

var planLimits = map[string]map[ContentType]int{
	PlanTrial: {
		TypePackages:     3,
		TypeDestinations: 3,
		TypeActivities:   5,
		TypeBlogs:        3,
		TypeTeamMembers:  3,
		TypeTestimonials: 5,
	},
	PlanStarter: {
		TypePackages:     10,
		TypeDestinations: 10,
		TypeActivities:   20,
		TypeBlogs:        15,
		TypeTeamMembers:  10,
		TypeTestimonials: 20,
	},
	PlanProfessional: {
		TypePackages:     50,
		TypeDestinations: 50,
		TypeActivities:   100,
		TypeBlogs:        100,
		TypeTeamMembers:  30,
		TypeTestimonials: 100,
	},
}

// Decision 是一次配额检查的结果。
type Decision struct {
	CanCreate bool `json:"can_create"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// Limit 返回套餐对某内容类型的上限；未知套餐按 trial 处理。
func Limit(plan string, contentType ContentType) int {
	if plan == PlanUnlimited {
		return Unlimited
	}
	limits, ok := planLimits[plan]
	if !ok {
		limits = planLimits[PlanTrial]
	}
	limit, ok := limits[contentType]
	if !ok {
		return Unlimited
	}
	return limit
}

// CanCreate 根据当前用量判断是否还能发布新的条目。
func CanCreate(plan string, contentType ContentType, usage int) Decision {
	limit := Limit(plan, contentType)
	if limit == Unlimited {
		return Decision{CanCreate: true, Remaining: Unlimited, Limit: Unlimited}
	}
	remaining := limit - usage
	if remaining <= 0 {
		return Decision{CanCreate: false, Remaining: 0, Limit: limit}
	}
	return Decision{CanCreate: true, Remaining: remaining, Limit: limit}
}

// Usage 从根账户上读取某内容类型的当前用量。
func Usage(account *db.Account, contentType ContentType) int {
	if account == nil {
		return 0
	}
	switch contentType {
	case TypePackages:
		return account.UsagePackages
	case TypeDestinations:
		return account.UsageDestinations
	case TypeActivities:
		return account.UsageActivities
	case TypeBlogs:
		return account.UsageBlogs
	case TypeTeamMembers:
		return account.UsageTeamMembers
	case TypeTestimonials:
		return account.UsageTestimonials
	default:
		return 0
	}
}

// Column 返回用量计数在 accounts 表中的列名，供仓库层做增减。
func (t ContentType) Column() string {
	switch t {
	case TypePackages:
		return "usage_packages"
	case TypeDestinations:
		return "usage_destinations"
	case TypeActivities:
		return "usage_activities"
	case TypeBlogs:
		return "usage_blogs"
	case TypeTeamMembers:
		return "usage_team_members"
	case TypeTestimonials:
		return "usage_testimonials"
	default:
		return ""
	}
}
