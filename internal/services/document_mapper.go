package services

import (
	"time"

	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
)

func formatTime(t time.Time) string {
	return t.Local().Format(dto.DateTimeLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func historyToDTO(entries []entities.DocumentHistory) []dto.HistoryItemDTO {
	items := make([]dto.HistoryItemDTO, 0, len(entries))
	for _, h := range entries {
		items = append(items, dto.HistoryItemDTO{
			Action:      string(h.Action),
			User:        h.Username,
			Sector:      h.Sector,
			DateTime:    formatTime(h.CreatedAt),
			Description: h.Description,
		})
	}
	return items
}

func documentToDTO(doc entities.Document, history []entities.DocumentHistory, movement *entities.DocumentMovement) dto.DocumentDTO {
	result := dto.DocumentDTO{
		ID:           doc.ID,
		Number:       doc.Number,
		Name:         doc.Name,
		Observations: doc.Observations,
		Type:         string(doc.Type),
		Sector:       doc.Sector,
		CreatedBy:    doc.CreatedByUsername,
		CreatedAt:    formatTime(doc.CreatedAt),
		ModifiedAt:   formatOptionalTime(doc.ModifiedAt),
		History:      historyToDTO(history),
	}
	if movement != nil {
		result.Movement = &dto.MovementDTO{
			FromSector: movement.FromSector,
			ToSector:   movement.ToSector,
			SentBy:     movement.UserID,
			SentAt:     formatTime(movement.CreatedAt),
		}
	}
	return result
}

func requestToDTO(item entities.DocumentRequestWithDocument, tag string, history []entities.DocumentHistory) dto.DocumentRequestDTO {
	return dto.DocumentRequestDTO{
		ID:               item.Request.ID,
		Tag:              tag,
		RequestingSector: item.Request.RequestingSector,
		RequestedBy:      item.RequestedByUsername,
		Reason:           item.Request.Reason,
		CreatedAt:        formatTime(item.Request.CreatedAt),
		Document:         documentToDTO(item.Document, history, nil),
	}
}
