package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

// MenuSource is the narrow contract the ingestion job needs from the
// external menu provider.
type MenuSource interface {
	FetchMenu(ctx context.Context, date, diningHall, meal string) ([]models.MenuItem, error)
}

// NutrisliceService fetches dining menus from the campus Nutrislice API.
type NutrisliceService struct {
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

func NewNutrisliceService(baseURL string, log *zap.SugaredLogger) *NutrisliceService {
	return &NutrisliceService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// The weeks endpoint returns the whole week containing the requested
// date; only the matching day is kept.
type weeksResponse struct {
	Days []struct {
		Date      string `json:"date"`
		MenuItems []struct {
			Food *struct {
				ID   json.Number `json:"id"`
				Name string      `json:"name"`
			} `json:"food"`
		} `json:"menu_items"`
	} `json:"days"`
}

// FetchMenu returns the listings for one (date, diningHall, meal)
// combination. Items without valid food data are skipped.
func (s *NutrisliceService) FetchMenu(ctx context.Context, date, diningHall, meal string) ([]models.MenuItem, error) {
	u := fmt.Sprintf("%s/menu/api/weeks/school/%s/menu-type/%s/%s/",
		s.baseURL, diningHall, meal, strings.ReplaceAll(date, "-", "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call menu API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu API error %d: %s", resp.StatusCode, string(body))
	}

	var wr weeksResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("failed to parse menu JSON: %w", err)
	}

	items := []models.MenuItem{}
	for _, day := range wr.Days {
		if day.Date != date {
			continue
		}
		for _, entry := range day.MenuItems {
			if entry.Food == nil || entry.Food.ID.String() == "" || entry.Food.Name == "" {
				continue
			}
			items = append(items, models.MenuItem{
				FoodID:     entry.Food.ID.String(),
				Name:       entry.Food.Name,
				Date:       day.Date,
				DiningHall: diningHall,
				Meal:       meal,
			})
		}
	}

	return items, nil
}
