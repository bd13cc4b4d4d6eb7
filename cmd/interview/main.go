package main

import "github.com/VanBaNguyen/SurveyCode/internal/cli"

func main() {
	cli.Execute()
}
