package importer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
)

const handlePlaceholder = "{handle}"

// ToProduct maps a feed entry onto the catalog shape. ok is false for entries
// without an id, since they cannot be deduplicated.
func ToProduct(fp FeedProduct, urlTemplate string) (p models.Product, ok bool, err error) {
	if fp.ID == nil {
		return models.Product{}, false, nil
	}

	externalID := strconv.FormatInt(*fp.ID, 10)
	p = models.Product{
		ExternalID: &externalID,
		Title:      models.UntitledProduct,
	}
	if fp.Title != nil && strings.TrimSpace(*fp.Title) != "" {
		p.Title = *fp.Title
	}

	if len(fp.Variants) > 0 {
		p.Price = parseDecimal(string(fp.Variants[0].Price))
	}

	if fp.Handle != nil && strings.TrimSpace(*fp.Handle) != "" {
		u := strings.ReplaceAll(urlTemplate, handlePlaceholder, url.PathEscape(*fp.Handle))
		p.URL = &u
	}

	if fp.Variants != nil {
		raw, err := json.Marshal(fp.Variants)
		if err != nil {
			return models.Product{}, false, fmt.Errorf("failed to serialize variants of product %s: %w", externalID, err)
		}
		p.VariantsJSON = raw
	}

	return p, true, nil
}

func parseDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
