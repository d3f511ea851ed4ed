package dto

import (
	"tourbase/internal/entity/common"
)

// ContentQuery 内容列表的通用查询参数。RootUserID 由租户上下文填充，
// 永远不从客户端读取。
type ContentQuery struct {
	common.BaseParams
	RootUserID uint   `json:"-" form:"-"`
	Search     string `json:"search" form:"search"`
	Published  *bool  `json:"published" form:"published"`
	CategoryID uint   `json:"category" form:"category"`
}

// ContentListResponse 内容列表响应。
type ContentListResponse struct {
	Items interface{}  `json:"items"`
	Meta  *common.Meta `json:"meta"`
}

// ContentDetailResponse 单条内容响应。
type ContentDetailResponse struct {
	Item interface{} `json:"item"`
}

// ReorderRequest 重排序请求：新顺序由数组顺序决定。
type ReorderRequest struct {
	IDs []uint `json:"ids"`
}

// PackageReorderRequest 套餐在某个分类内的重排序。
type PackageReorderRequest struct {
	CategoryID uint   `json:"category_id"`
	PackageIDs []uint `json:"package_ids"`
}

// QuotaStatus 某内容类型的配额使用情况。
type QuotaStatus struct {
	ContentType string `json:"content_type"`
	Used        int    `json:"used"`
	Remaining   int    `json:"remaining"`
	Limit       int    `json:"limit"`
	CanCreate   bool   `json:"can_create"`
}
