package cloner_test

import (
	"context"
	"fmt"

	"graph-cloner/cloner"
)

type Employee struct {
	Name    string
	Manager *Employee
	Reports []*Employee
	Badge   string `clone:"null"`
}

func ExampleEngine_Clone() {
	boss := &Employee{Name: "Ada", Badge: "0001"}
	dev := &Employee{Name: "Linus", Manager: boss, Badge: "0002"}
	boss.Reports = []*Employee{dev}

	e, err := cloner.New(cloner.WithWorkers(2))
	if err != nil {
		panic(err)
	}

	dup, err := cloner.CloneOf(context.Background(), e, boss)
	if err != nil {
		panic(err)
	}

	fmt.Println(dup.Name, dup.Reports[0].Name)
	fmt.Println(dup != boss, dup.Reports[0].Manager == dup)
	fmt.Printf("%q\n", dup.Badge)

	// Output:
	// Ada Linus
	// true true
	// ""
}

func ExampleGob() {
	type point struct{ X, Y int }

	dup, err := cloner.Gob.Clone(context.Background(), point{X: 1, Y: 2})
	if err != nil {
		panic(err)
	}

	fmt.Println(dup)

	// Output:
	// {1 2}
}
