package filter_test

import (
	"context"
	"fmt"

	"github.com/ardnew/inlinemath/calc"
	"github.com/ardnew/inlinemath/filter"
)

func Example() {
	f, err := filter.New(calc.Bindings{
		{Name: "base", Value: 8},
		{Name: "ratio", Value: "1.618"},
	})
	if err != nil {
		fmt.Println(err)

		return
	}

	file, err := f.Process(context.Background(), &filter.File{
		Path:     "site.css",
		Contents: []byte("h1 { font-size: gulpmath(base * ratio);px; }"),
	})
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(string(file.Contents))
	// Output:
	// h1 { font-size: 12.944px; }
}

func ExampleWithReporter() {
	f, err := filter.New(nil, filter.WithReporter(func(err error) {
		fmt.Println(err)
	}))
	if err != nil {
		fmt.Println(err)

		return
	}

	file, _ := f.Process(context.Background(), &filter.File{
		Path:     "theme/vars.less",
		Contents: []byte("@a: gulpmath(2 * 3);\n@b: gulpmath(nope + 1);"),
	})

	fmt.Println(string(file.Contents))
	// Output:
	// vars.less: unknown name nope at line 2
	//        nope + 1
	// @a: 6
	// @b: gulpmath(nope + 1);
}
