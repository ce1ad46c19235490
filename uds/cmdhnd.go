package uds

import (
	"context"
	"io"
)

// CmdHnd is one admin command. Fn writes its reply to w.
type CmdHnd struct {
	Desc  string
	Usage string
	Fn    func(ctx context.Context, args []string, w io.Writer) error
}
