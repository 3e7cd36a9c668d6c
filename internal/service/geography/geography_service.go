package geography

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store  store.GeographyStore
	client *http.Client

	retryInterval time.Duration
	maxRetries    uint64
}

func NewService(store store.GeographyStore, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{
		store:         store,
		client:        client,
		retryInterval: 200 * time.Millisecond,
		maxRetries:    5,
	}
}

func (s *Service) ListProvincias(ctx context.Context, emergenciaID int64) ([]*domain.Provincia, error) {
	provincias, err := s.store.ListProvinciasByEmergencia(ctx, emergenciaID)
	if err != nil {
		return nil, fmt.Errorf("store.ListProvinciasByEmergencia: %w", err)
	}
	return provincias, nil
}

func (s *Service) ListCantones(ctx context.Context, provinciaID, emergenciaID int64) ([]*domain.Canton, error) {
	cantones, err := s.store.ListCantonesByProvincia(ctx, provinciaID, emergenciaID)
	if err != nil {
		return nil, fmt.Errorf("store.ListCantonesByProvincia: %w", err)
	}
	return cantones, nil
}

func (s *Service) ListParroquias(ctx context.Context, cantonID, emergenciaID int64) ([]*domain.Parroquia, error) {
	parroquias, err := s.store.ListParroquiasByCanton(ctx, cantonID, emergenciaID)
	if err != nil {
		return nil, fmt.Errorf("store.ListParroquiasByCanton: %w", err)
	}
	return parroquias, nil
}

// BackfillDPA scrapes the political-administrative division index at mainURL.
// The index lists one province per row (code + link); every linked page lists
// canton/parish pairs. Province pages are fetched in parallel.
func (s *Service) BackfillDPA(ctx context.Context, mainURL string) (*dto.BackfillGeografiaResponse, error) {
	base, err := url.Parse(mainURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	doc, err := s.fetchDocument(ctx, mainURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get main page: %w", err)
	}

	rows := make([]dto.DPARow, 0, 1024)
	rowsMx := sync.Mutex{}
	eg, egCtx := errgroup.WithContext(ctx)

	doc.Find("table.dpa-provincias tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		codeStr := strings.TrimSpace(tr.Find("td.codigo").Text())
		link := tr.Find("td a")
		provinciaNombre := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if !ok || codeStr == "" {
			return true
		}

		eg.Go(func() error {
			provinciaID, err := strconv.ParseInt(codeStr, 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse provincia code %q: %w", codeStr, err)
			}

			ref, err := url.Parse(href)
			if err != nil {
				return fmt.Errorf("url.Parse, href-%s: %w", href, err)
			}

			parsed, err := s.parseProvinciaPage(egCtx, base.ResolveReference(ref).String(), provinciaID, provinciaNombre)
			if err != nil {
				return fmt.Errorf("parseProvinciaPage, provincia-%s: %w", provinciaNombre, err)
			}

			logger.Infof(ctx, "parsed %d parroquias for %s", len(parsed), provinciaNombre)

			rowsMx.Lock()
			defer rowsMx.Unlock()
			rows = append(rows, parsed...)
			return nil
		})

		return true
	})

	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	if err = s.store.UpsertDPA(ctx, rows); err != nil {
		return nil, fmt.Errorf("store.UpsertDPA: %w", err)
	}

	return summarize(rows), nil
}

func (s *Service) parseProvinciaPage(ctx context.Context, pageURL string, provinciaID int64, provinciaNombre string) ([]dto.DPARow, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var (
		rows     []dto.DPARow
		parseErr error
	)
	doc.Find("table.dpa-parroquias tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 4 {
			return true
		}

		cantonID, err := strconv.ParseInt(strings.TrimSpace(tds.Eq(0).Text()), 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("failed to parse canton code: %w", err)
			return false
		}
		parroquiaID, err := strconv.ParseInt(strings.TrimSpace(tds.Eq(2).Text()), 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("failed to parse parroquia code: %w", err)
			return false
		}

		rows = append(rows, dto.DPARow{
			ProvinciaID:     provinciaID,
			ProvinciaNombre: provinciaNombre,
			CantonID:        cantonID,
			CantonNombre:    strings.TrimSpace(tds.Eq(1).Text()),
			ParroquiaID:     parroquiaID,
			ParroquiaNombre: strings.TrimSpace(tds.Eq(3).Text()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return rows, nil
}

func (s *Service) fetchDocument(ctx context.Context, pageURL string) (doc *goquery.Document, err error) {
	var resp *http.Response
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = s.client.Do(req)
			if httpErr != nil {
				return fmt.Errorf("client.Do: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), s.maxRetries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close reader: %w", closeErr)
		}
	}()

	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}

func summarize(rows []dto.DPARow) *dto.BackfillGeografiaResponse {
	provincias := make(map[int64]struct{})
	cantones := make(map[int64]struct{})
	parroquias := make(map[int64]struct{})
	for _, r := range rows {
		provincias[r.ProvinciaID] = struct{}{}
		cantones[r.CantonID] = struct{}{}
		parroquias[r.ParroquiaID] = struct{}{}
	}

	return &dto.BackfillGeografiaResponse{
		Provincias: len(provincias),
		Cantones:   len(cantones),
		Parroquias: len(parroquias),
	}
}
