package main

import "presenceHub/cmd/app"

func main() {
	app.GetApp().LetsGo()
}
