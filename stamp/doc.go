// Package stamp is the annotation-merge engine.
//
// Every page of a document gets a label of the form
//
//	{prefix}{project}-{page:03d}[ Qty: {quantity}]
//
// where the quantity is joined from tabular records by identifier.
// The engine only talks to the document through [Document], so the
// PDF codec, the CSV reader and the transport stay outside of this package.
//
// A merge is a single ordered pass:
//
//	table, err := stamp.BuildTable(rows, stamp.DefaultFieldNames)
//	summary, err := stamp.NewEngine().Merge(ctx, doc, table, opts)
//
// or, in one call, [MergeAnnotations].
package stamp
