package server

//go:generate swag init -g swagger.go -o ../../docs/swagger

// @title reqview API
// @version 0.1
// @description Submit HTTP requests and watch the rendered outcome.
// @contact.name reqview maintainers
// @contact.url https://github.com/raysh454/reqview
// @BasePath /
