// Package writer applies file operations with validation and atomic writes.
//
// Operations are validated as a batch before any of them executes, so a bad
// destination aborts the run before anything touches the disk:
//
//	op := &writer.WriteFileOp{Path: "configs/a.config", Content: data, Mode: 0o644}
//	if err := writer.Execute(ctx, []writer.Operation{op}, writer.ExecuteOptions{}); err != nil {
//	    return err
//	}
//
// Files are written to a temporary file in the destination directory and
// renamed into place, so readers see either the old content or the new
// content, never a partial file.
package writer
