package layers_test

import (
	"fmt"
	"io"
	"os"

	layers "github.com/0xalexb/hjarta-layers"
	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/registry"
)

func ExampleNewApp() {
	dir, err := os.MkdirTemp("", "manifests")
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}
	defer os.RemoveAll(dir)

	err = os.WriteFile(dir+"/theme.yml", []byte(`
name: theme
config:
  Widget:
    Colors: [yellow]
remove:
  - type: Widget
    property: Colors
    value: red
`), 0o600)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	reg := registry.New()
	_ = reg.Register("Base", registry.WithStatic("Colors", []any{"blue"}))
	_ = reg.Register("Widget", registry.WithParent("Base"), registry.WithStatic("Colors", []any{"red", "green"}))

	app := layers.NewApp(
		layers.WithLogOutput(io.Discard),
		layers.WithRegistry(reg),
		layers.WithManifestDirs(dir),
	)

	err = app.Start()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}
	defer func() { _ = app.Stop() }()

	colors, err := app.Holder().Load().Get("Widget", "Colors", engine.Inherited)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println(colors)
	// Output: [yellow, green, blue]
}
