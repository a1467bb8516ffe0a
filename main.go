package main

import "github.com/secretsweep/secretsweep/cmd/secretsweep"

func main() { secretsweep.Execute() }
