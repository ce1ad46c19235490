//go:build debug

package stamp

import "log"

func logPage(pl PageLabel) {
	log.Printf("[DEBUG][MERGE] page %d id=%q found=%t label=%q", pl.Page, pl.Identifier, pl.Found, pl.Label)
}
