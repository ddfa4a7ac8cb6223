package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/scanpos/api/responses"
	"github.com/angelmondragon/scanpos/api/validators"
	"github.com/angelmondragon/scanpos/internal/catalog"
	"github.com/angelmondragon/scanpos/internal/display"
	pkgerrors "github.com/angelmondragon/scanpos/pkg/errors"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	catalog.Lookup
	Codes() []string
}

type productView struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
}

func ListProducts(cat Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes := cat.Codes()
		items := make([]productView, 0, len(codes))
		for _, code := range codes {
			if entry, ok := cat.Lookup(code); ok {
				items = append(items, toProductView(code, entry))
			}
		}
		responses.WriteSuccess(w, items)
	}
}

func GetProduct(cat Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := validators.ParseCode(chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, ok := cat.Lookup(code)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, toProductView(code, entry))
	}
}

func toProductView(code string, entry catalog.Entry) productView {
	return productView{Code: code, Name: entry.Name, UnitPrice: display.Money(entry.UnitPrice)}
}
