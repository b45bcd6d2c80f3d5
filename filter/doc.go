// Package filter substitutes the results of expressions embedded in text.
//
// An expression is written as a call of the marker name, gulpmath by
// default, terminated by a semicolon:
//
//	.box { width: gulpmath(base * 4)px; }
//
// A [Filter] evaluates every such call against its variables with a
// [calc.Session] and replaces the call, including the terminator, with the
// formatted result:
//
//	f, err := filter.New(calc.Bindings{{Name: "base", Value: 8}})
//	if err != nil {
//		return err
//	}
//
//	file, err := f.Process(ctx, &filter.File{Path: "site.css", Contents: src})
//
// A literal semicolon inside an expression is written "\;". A failed
// expression yields an *[EvaluationError] carrying the file name and line
// of the call. Under the default [Continue] policy the failure is reported
// and the call is left in the text; under [Abort] it is returned.
//
// [Filter.Pipe] runs a filter as one stage of a file pipeline.
package filter
