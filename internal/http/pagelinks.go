package http

import (
	"html"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// PageLinks renders one anchor per page; the current page is highlighted.
func PageLinks(info domain.PagingInfo, pageURL func(page int) string) string {
	var b strings.Builder
	for i := 1; i <= info.TotalPages(); i++ {
		class := "btn btn-default"
		if i == info.CurrentPage {
			class += " btn-primary selected"
		}
		b.WriteString(`<a class="`)
		b.WriteString(class)
		b.WriteString(`" href="`)
		b.WriteString(html.EscapeString(pageURL(i)))
		b.WriteString(`">`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`</a>`)
	}
	return b.String()
}
