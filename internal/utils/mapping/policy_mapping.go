package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
)

// ToModelAuthorizationPolicy converts a domain policy to its model form,
// serializing the four condition documents to JSON.
func ToModelAuthorizationPolicy(d domain.AuthorizationPolicy) (models.AuthorizationPolicy, error) {
	subject, err := json.Marshal(d.Subject)
	if err != nil {
		return models.AuthorizationPolicy{}, fmt.Errorf("failed to marshal subject condition: %w", err)
	}
	resource, err := json.Marshal(d.Resource)
	if err != nil {
		return models.AuthorizationPolicy{}, fmt.Errorf("failed to marshal resource condition: %w", err)
	}
	action, err := json.Marshal(d.Action)
	if err != nil {
		return models.AuthorizationPolicy{}, fmt.Errorf("failed to marshal action condition: %w", err)
	}
	environment, err := json.Marshal(d.Environment)
	if err != nil {
		return models.AuthorizationPolicy{}, fmt.Errorf("failed to marshal environment condition: %w", err)
	}

	return models.AuthorizationPolicy{
		PolicyID:       d.PolicyID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Description:    d.Description,
		Subject:        subject,
		Resource:       resource,
		Action:         action,
		Environment:    environment,
		Effect:         string(d.Effect),
		Priority:       d.Priority,
		IsSystemPolicy: d.IsSystemPolicy,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainAuthorizationPolicy converts a model policy to its domain form,
// deserializing the condition documents.
func ToDomainAuthorizationPolicy(m models.AuthorizationPolicy) (domain.AuthorizationPolicy, error) {
	d := domain.AuthorizationPolicy{
		PolicyID:       m.PolicyID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Description:    m.Description,
		Effect:         domain.PolicyEffect(m.Effect),
		Priority:       m.Priority,
		IsSystemPolicy: m.IsSystemPolicy,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}

	if err := json.Unmarshal(m.Subject, &d.Subject); err != nil {
		return domain.AuthorizationPolicy{}, fmt.Errorf("failed to unmarshal subject condition for policy %s: %w", m.PolicyID, err)
	}
	if err := json.Unmarshal(m.Resource, &d.Resource); err != nil {
		return domain.AuthorizationPolicy{}, fmt.Errorf("failed to unmarshal resource condition for policy %s: %w", m.PolicyID, err)
	}
	if err := json.Unmarshal(m.Action, &d.Action); err != nil {
		return domain.AuthorizationPolicy{}, fmt.Errorf("failed to unmarshal action condition for policy %s: %w", m.PolicyID, err)
	}
	if err := json.Unmarshal(m.Environment, &d.Environment); err != nil {
		return domain.AuthorizationPolicy{}, fmt.Errorf("failed to unmarshal environment condition for policy %s: %w", m.PolicyID, err)
	}
	return d, nil
}
