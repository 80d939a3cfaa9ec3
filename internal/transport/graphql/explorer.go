package graphql

import (
	"html/template"
	"io"
)

var explorerTmpl = template.Must(template.New("explorer").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>travelql</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body style="margin:0">
  <div id="graphiql" style="height:100vh"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: {{.Path}} });
    ReactDOM.createRoot(document.getElementById('graphiql'))
      .render(React.createElement(GraphiQL, { fetcher: fetcher }));
  </script>
</body>
</html>
`))

// WriteExplorer renders the GraphiQL page posting to path.
func WriteExplorer(w io.Writer, path string) error {
	return explorerTmpl.Execute(w, struct{ Path string }{Path: path}) //nolint:wrapcheck // template error is self-describing
}
