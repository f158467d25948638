// Command quarry evaluates a map construction script, reports scene
// statistics and advisory issues, and optionally writes render meshes as
// JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ktelfer/quarry/pkg/engine"
	"github.com/ktelfer/quarry/pkg/scene"
	"github.com/ktelfer/quarry/pkg/tessellate"
)

func main() {
	meshOut := flag.String("mesh", "", "write tessellated meshes to this JSON file")
	showHidden := flag.Bool("show-hidden", false, "include hidden nodes in mesh output")
	mods := flag.String("mods", "", "comma separated list of available mod search paths")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: quarry [flags] script.lisp\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("quarry: %v", err)
	}

	world, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		log.Fatalf("quarry: %v", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "quarry: %s: %s\n", flag.Arg(0), e.Error())
		}
		os.Exit(1)
	}

	printStats(world)
	printIssues(world, splitList(*mods))

	if *meshOut != "" {
		if err := writeMeshes(world, *meshOut, *showHidden); err != nil {
			log.Fatalf("quarry: %v", err)
		}
	}
}

func printStats(world *scene.WorldNode) {
	var layers, groups, entities, brushes, patches int
	scene.Walk(world, func(n scene.Node) {
		n.Accept(scene.Funcs{
			Layer:  func(*scene.LayerNode) { layers++ },
			Group:  func(*scene.GroupNode) { groups++ },
			Entity: func(*scene.EntityNode) { entities++ },
			Brush:  func(*scene.BrushNode) { brushes++ },
			Patch:  func(*scene.PatchNode) { patches++ },
		})
	})

	bounds := world.LogicalBounds()
	fmt.Printf("layers: %d  groups: %d  entities: %d  brushes: %d  patches: %d\n",
		layers, groups, entities, brushes, patches)
	if brushes+patches+entities > 0 {
		fmt.Printf("bounds: min (%g %g %g) max (%g %g %g)\n",
			bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
			bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
	}
}

func printIssues(world *scene.WorldNode, availableMods []string) {
	// The CLI loads no entity definition database, so definition issues
	// would flag every entity and are left out here.
	validators := []scene.Validator{
		scene.MissingModValidator{Available: availableMods},
		scene.QuotedPropertyValueValidator{},
	}
	for _, issue := range scene.ValidateTree(world, validators, scene.IssueAny) {
		fmt.Printf("issue (%s): %s\n", issue.Type, issue.Description)
	}
}

func writeMeshes(world *scene.WorldNode, path string, showHidden bool) error {
	meshes := tessellate.Tessellate(world, tessellate.Options{IncludeHidden: showHidden})

	data, err := json.MarshalIndent(meshes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d meshes to %s\n", len(meshes), path)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
