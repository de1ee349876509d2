package demoserver

// Fixture is a canned response served at a fixed path.
type Fixture struct {
	Path        string
	Description string
	ContentType string
	Status      int
	Body        string
}

// Fixtures returns every canned response the demo server exposes.
func Fixtures() []Fixture {
	return []Fixture{
		{
			Path:        "/json/user",
			Description: "a flat object",
			ContentType: "application/json",
			Body:        `{"id":42,"name":"Ada Lovelace","email":"ada@example.com","admin":false,"manager":null}`,
		},
		{
			Path:        "/json/list",
			Description: "an array of objects",
			ContentType: "application/json",
			Body: `[
  {"sku":"A-100","price":9.99,"tags":["new","sale"]},
  {"sku":"B-200","price":120,"tags":[]},
  {"sku":"C-300","price":0.5,"tags":["clearance"]}
]`,
		},
		{
			Path:        "/json/nested",
			Description: "deeply nested document",
			ContentType: "application/json",
			Body:        `{"order":{"id":"o-1","customer":{"name":"Grace","address":{"city":"Arlington","geo":{"lat":38.88,"lng":-77.1}}},"lines":[{"sku":"A-100","qty":2}]}}`,
		},
		{
			Path:        "/json/scalar",
			Description: "a bare JSON string",
			ContentType: "application/json",
			Body:        `"just a string"`,
		},
		{
			Path:        "/json/broken",
			Description: "truncated JSON",
			ContentType: "application/json",
			Body:        `{"id":42,"name":"Ada`,
		},
		{
			Path:        "/json/error",
			Description: "JSON error body with status 422",
			ContentType: "application/json",
			Status:      422,
			Body:        `{"error":"validation failed","fields":{"email":"must not be empty"}}`,
		},
		{
			Path:        "/html",
			Description: "an HTML document",
			ContentType: "text/html; charset=utf-8",
			Body: `<!DOCTYPE html>
<html>
<head><title>reqview demo page</title></head>
<body><h1>Not JSON</h1><p>This page is HTML on purpose.</p></body>
</html>`,
		},
		{
			Path:        "/text",
			Description: "plain text",
			ContentType: "text/plain; charset=utf-8",
			Body:        "not json\n",
		},
	}
}
