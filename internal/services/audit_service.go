package services

import (
	"context"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
)

// AuditService exposes the append-only log. Reads are filtered; the only
// direct write is the manual-append endpoint (admin tooling) — normal
// writes happen inside the repositories' composite transactions.
type AuditService struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditService(auditRepo repositories.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) Append(ctx context.Context, entry *models.AuditLog) error {
	return s.auditRepo.Create(ctx, entry)
}

func (s *AuditService) List(ctx context.Context, f repositories.AuditLogFilter, limit, offset int) ([]*models.AuditLog, int, error) {
	return s.auditRepo.List(ctx, f, limit, offset)
}
