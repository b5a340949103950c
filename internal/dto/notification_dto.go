// FILE: internal/dto/notification_dto.go
package dto

type NotificationListResponse struct {
	Notifications interface{} `json:"notifications"`
	Total         int64       `json:"total"`
	UnreadCount   int64       `json:"unread_count"`
}
