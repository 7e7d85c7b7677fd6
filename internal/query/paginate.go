package query

import "strconv"

const pageDelta = 2

// PageToken is one entry of a pagination bar: a page number or an ellipsis.
// It marshals to a JSON number or to the string "...".
type PageToken struct {
	Page     int
	Ellipsis bool
}

func (t PageToken) String() string {
	if t.Ellipsis {
		return "..."
	}
	return strconv.Itoa(t.Page)
}

func (t PageToken) MarshalJSON() ([]byte, error) {
	if t.Ellipsis {
		return []byte(`"..."`), nil
	}
	return strconv.AppendInt(nil, int64(t.Page), 10), nil
}

// PageRange lists the tokens of a pagination bar. The first and last pages
// and every page within two of current are shown. A gap of a single page is
// filled with that page; longer gaps become one ellipsis.
//
//	PageRange(1, 10)  → 1 2 3 ... 10
//	PageRange(5, 10)  → 1 2 3 4 5 6 7 ... 10
//	PageRange(6, 12)  → 1 ... 4 5 6 7 8 ... 12
func PageRange(current, total int) []PageToken {
	tokens := make([]PageToken, 0, 2*pageDelta+5)
	last := 0
	for i := 1; i <= total; i++ {
		if i != 1 && i != total && (i < current-pageDelta || i > current+pageDelta) {
			continue
		}
		if last > 0 {
			switch i - last {
			case 1:
			case 2:
				tokens = append(tokens, PageToken{Page: last + 1})
			default:
				tokens = append(tokens, PageToken{Ellipsis: true})
			}
		}
		tokens = append(tokens, PageToken{Page: i})
		last = i
	}
	return tokens
}
