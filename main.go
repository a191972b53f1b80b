package main

import "github.com/surftab/surftab/cmd/surftab"

func main() { surftab.Execute() }
