//go:build !debug

package stamp

func logPage(PageLabel) {}
