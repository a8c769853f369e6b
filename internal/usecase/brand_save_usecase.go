package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/extractor"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/session"
	"github.com/user/brand-ingest/internal/validation"
	"github.com/user/brand-ingest/pkg/metrics"
)

// SaveState is a state of the save state machine. A SaveResult always carries
// the state the save stopped in.
type SaveState string

const (
	StateReceived                SaveState = "received"
	StateSessionResolved         SaveState = "session_resolved"
	StateValidated               SaveState = "validated"
	StatePersisted               SaveState = "persisted"
	StateDeferredPayloadCaptured SaveState = "deferred_payload_captured"

	StateDisallowedInput           SaveState = "disallowed_input"
	StateSessionNotFound           SaveState = "session_not_found"
	StateURLMismatch               SaveState = "url_mismatch"
	StateValidationFailed          SaveState = "validation_failed"
	StateNonRetryableFieldsMissing SaveState = "non_retryable_fields_missing"
)

// SaveResult describes how a save ended. Only infrastructure failures are
// returned as errors; every rejection is a SaveResult.
type SaveResult struct {
	State               SaveState                `json:"state"`
	Message             string                   `json:"message"`
	RecordID            string                   `json:"recordId,omitempty"`
	Record              *entity.BrandRecord      `json:"record,omitempty"`
	Validation          *entity.ValidationResult `json:"validation,omitempty"`
	DisallowedFields    []string                 `json:"disallowedFields,omitempty"`
	MissingRetryable    []string                 `json:"missingRetryable,omitempty"`
	MissingNonRetryable []string                 `json:"missingNonRetryable,omitempty"`
}

// Saved reports whether the record was persisted and its payload captured.
func (r *SaveResult) Saved() bool {
	return r.State == StateDeferredPayloadCaptured
}

// BrandSaver is the provenance gate in front of the record store.
type BrandSaver interface {
	Save(ctx context.Context, req SaveRequest) (*SaveResult, error)
}

type brandSaveUseCase struct {
	sessions *session.BrandSessions
	payloads *session.DeferredPayloads
	store    repository.RecordStore
	index    repository.IndexRepository
	cache    repository.EnrichmentCache
	logger   *zap.Logger
}

// NewBrandSaver creates the save use case. cache may be nil.
func NewBrandSaver(
	sessions *session.BrandSessions,
	payloads *session.DeferredPayloads,
	store repository.RecordStore,
	index repository.IndexRepository,
	cache repository.EnrichmentCache,
	logger *zap.Logger,
) BrandSaver {
	return &brandSaveUseCase{
		sessions: sessions,
		payloads: payloads,
		store:    store,
		index:    index,
		cache:    cache,
		logger:   logger,
	}
}

func (uc *brandSaveUseCase) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	res, err := uc.save(ctx, req)
	if res != nil {
		metrics.BrandSavesTotal.WithLabelValues(string(res.State)).Inc()
	}
	return res, err
}

func (uc *brandSaveUseCase) save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	log := uc.logger.With(zap.String("session_id", req.SessionID), zap.String("url", req.SourceURL))

	if fields := req.DisallowedFields(); len(fields) > 0 {
		return &SaveResult{
			State:            StateDisallowedInput,
			Message:          "scraped fields cannot be set by the caller: " + strings.Join(fields, ", "),
			DisallowedFields: fields,
		}, nil
	}

	sess, ok := uc.sessions.Get(req.SessionID)
	if !ok {
		return &SaveResult{
			State:   StateSessionNotFound,
			Message: "session not found or expired; scrape the page again",
		}, nil
	}
	if sess.SourceURL != req.SourceURL {
		log.Warn("save references a session for another URL", zap.String("session_url", sess.SourceURL))
		return &SaveResult{
			State:   StateURLMismatch,
			Message: "session was created for " + sess.SourceURL,
		}, nil
	}

	gt := uc.groundTruth(ctx, sess)
	rec := resolveRecord(sess, req)

	result := validation.Validate(gt, rec)
	for _, issue := range result.Issues {
		metrics.ValidationIssuesTotal.WithLabelValues(string(issue.Severity)).Inc()
	}
	if !result.Valid {
		return &SaveResult{
			State:      StateValidationFailed,
			Message:    result.Summary,
			Record:     &rec,
			Validation: &result,
		}, nil
	}

	attachAuthoritative(&rec, gt)
	rec.CreatedAt = uc.payloads.Now()

	id, err := uc.store.Create(ctx, BuildProperties(rec), BuildBlocks(rec))
	if err != nil {
		return nil, eris.Wrap(err, "save: create brand record")
	}
	rec.ID = id
	log = log.With(zap.String("record_id", id))

	entryID := uc.originatingEntry(ctx, req)
	if entryID != "" {
		if err := uc.index.Update(ctx, entryID, entity.IndexUpdate{Status: entity.IndexStatusSaved, RecordID: id}); err != nil {
			log.Warn("save: failed to mark index entry saved", zap.String("index_entry_id", entryID), zap.Error(err))
		}
	}

	payload := BuildDeferredPayload(rec, entryID, rec.CreatedAt)
	uc.payloads.Put(id, payload)
	retryable, nonRetryable := MissingFields(payload)

	if len(nonRetryable) > 0 {
		if err := uc.rollback(ctx, id, entryID, nonRetryable); err != nil {
			return nil, err
		}
		log.Warn("save rolled back", zap.Strings("missing", nonRetryable))
		metrics.DeferredPayloadsTotal.WithLabelValues("rolled_back").Inc()
		return &SaveResult{
			State:               StateNonRetryableFieldsMissing,
			Message:             rollbackReason(nonRetryable),
			RecordID:            id,
			Record:              &rec,
			Validation:          &result,
			MissingRetryable:    retryable,
			MissingNonRetryable: nonRetryable,
		}, nil
	}

	metrics.DeferredPayloadsTotal.WithLabelValues("captured").Inc()
	log.Info("brand record saved", zap.Int("warnings", result.WarningCount), zap.Strings("missing_retryable", retryable))
	msg := "record saved"
	if len(retryable) > 0 {
		msg = "record saved; add " + strings.Join(retryable, ", ") + " before creating the catalog"
	}
	return &SaveResult{
		State:            StateDeferredPayloadCaptured,
		Message:          msg,
		RecordID:         id,
		Record:           &rec,
		Validation:       &result,
		MissingRetryable: retryable,
	}, nil
}

// groundTruth combines the session snapshot with the auxiliary cache.
func (uc *brandSaveUseCase) groundTruth(ctx context.Context, sess entity.ScrapeSession) validation.GroundTruth {
	gt := validation.GroundTruth{
		Contact:      sess.ContactDetails,
		Distributors: sess.Distributors,
		CatalogLinks: sess.CatalogLinks,
		Images:       sess.ImageURLs,
		Markdown:     sess.RawMarkdown,
	}
	if sess.RawMetadata != nil {
		gt.FallbackImage = extractor.FallbackHeaderImage(*sess.RawMetadata)
	}
	if uc.cache == nil {
		return gt
	}
	snap, err := uc.cache.Get(ctx, sess.SourceURL)
	switch {
	case err == nil:
		gt.CachedDistributors = snap.Distributors
		gt.CachedCatalogLinks = snap.CatalogLinks
	case !errors.Is(err, repository.ErrCacheMiss):
		uc.logger.Warn("enrichment cache unavailable, validating against the session only",
			zap.String("url", sess.SourceURL), zap.Error(err))
	}
	return gt
}

// resolveRecord builds the proposed record from scraped facts plus the
// caller's enrichment. The brand inbox is not copied: the caller confirms a
// mailbox through contactEmail or a discovered contact.
func resolveRecord(sess entity.ScrapeSession, req SaveRequest) entity.BrandRecord {
	c := sess.ContactDetails
	var enrich entity.EnrichmentContact
	if req.EnrichmentContact != nil {
		enrich = *req.EnrichmentContact
	}

	var title string
	if sess.RawMetadata != nil {
		title = firstNonEmpty(sess.RawMetadata.OgTitle, sess.RawMetadata.Title)
	}

	return entity.BrandRecord{
		SessionID:         sess.SessionID,
		SourceURL:         sess.SourceURL,
		Name:              firstNonEmpty(req.Name, title),
		CompanyName:       strings.TrimSpace(req.CompanyName),
		Description:       strings.TrimSpace(req.Description),
		Phone:             c.Phone,
		ContactEmail:      firstNonEmpty(req.ContactEmail, enrich.Email),
		ContactName:       firstNonEmpty(req.ContactName, enrich.Name, c.ContactName),
		ContactJobTitle:   firstNonEmpty(req.ContactJobTitle, enrich.JobTitle, c.ContactJobTitle),
		Street:            c.Street,
		City:              c.City,
		Zip:               c.Zip,
		Lat:               c.Lat,
		Lng:               c.Lng,
		Website:           firstNonEmpty(c.Website, req.WebsiteFallback),
		Facebook:          c.Facebook,
		Instagram:         c.Instagram,
		Pinterest:         c.Pinterest,
		LogoURL:           sess.ImageURLs.LogoURL,
		HeaderImageURL:    sess.ImageURLs.HeaderImageURL,
		AboutImageURL:     sess.ImageURLs.AboutImageURL,
		Distributors:      entity.CloneDistributors(sess.Distributors),
		Catalogs:          catalogsFromLinks(sess.CatalogLinks),
		CountryCode:       NormalizeCountryCode(req.CountryCode),
		CountryName:       strings.TrimSpace(req.CountryName),
		ProductCategories: nonEmpty(req.ProductCategories),
		ExcludedCountries: nonEmpty(req.ExcludedCountries),
		IsDisabled:        req.IsDisabled,
		Status:            entity.RecordStatusActive,
	}
}

// attachAuthoritative replaces caller-visible lists with the richer scraped
// ones and fills the header image from the page metadata.
func attachAuthoritative(rec *entity.BrandRecord, gt validation.GroundTruth) {
	rec.Distributors = entity.CloneDistributors(gt.AuthoritativeDistributors())
	rec.Catalogs = catalogsFromLinks(gt.AuthoritativeCatalogLinks())
	if rec.HeaderImageURL == "" {
		rec.HeaderImageURL = gt.FallbackImage
	}
	if rec.AboutImageURL == "" {
		rec.AboutImageURL = gt.Images.AboutImageURL
	}
}

// originatingEntry finds the index entry the scrape came from, if any.
func (uc *brandSaveUseCase) originatingEntry(ctx context.Context, req SaveRequest) string {
	if req.IndexEntryID != "" {
		return req.IndexEntryID
	}
	entry, err := uc.index.FindByURL(ctx, req.SourceURL)
	if err != nil {
		if !errors.Is(err, repository.ErrIndexEntryNotFound) {
			uc.logger.Warn("save: index lookup failed", zap.String("url", req.SourceURL), zap.Error(err))
		}
		return ""
	}
	return entry.ID
}

// rollback undoes a save whose payload can never be completed.
func (uc *brandSaveUseCase) rollback(ctx context.Context, recordID, entryID string, nonRetryable []string) error {
	uc.payloads.Delete(recordID)
	if err := uc.store.Archive(ctx, recordID); err != nil {
		return eris.Wrapf(err, "save: archive record %s during rollback", recordID)
	}
	if entryID == "" {
		return nil
	}
	update := entity.IndexUpdate{
		Status:        entity.IndexStatusFailed,
		RecordID:      recordID,
		FailureReason: rollbackReason(nonRetryable),
	}
	if err := uc.index.Update(ctx, entryID, update); err != nil {
		return eris.Wrapf(err, "save: mark index entry %s failed", entryID)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
