package site

// pageTemplate is the Go html/template for each documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <nav class="sidebar">
    <h2 class="site-title"><a href="{{.BasePath}}index.html">{{.SiteTitle}}</a></h2>
    {{.NavHTML}}
  </nav>
  <main class="content">
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
</body>
</html>
`

// layoutCSS styles the page chrome. Code colors follow it in style.css.
const layoutCSS = `/* layout */
:root {
  --bg: #282828;
  --bg-soft: #32302f;
  --fg: #ebdbb2;
  --muted: #928374;
  --accent: #83a598;
  --sidebar-width: 260px;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  background: var(--bg);
  color: var(--fg);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  line-height: 1.6;
}
a { color: var(--accent); }
.sidebar {
  position: fixed;
  top: 0;
  bottom: 0;
  width: var(--sidebar-width);
  overflow-y: auto;
  padding: 1rem;
  background: var(--bg-soft);
}
.sidebar ul { list-style: none; padding: 0; margin: 0; }
.sidebar li.dir { margin-top: 0.75rem; color: var(--muted); font-size: 0.85rem; text-transform: uppercase; }
.sidebar li.file a { display: block; padding: 0.2rem 0.5rem; text-decoration: none; border-radius: 4px; }
.sidebar li.file a.active { background: var(--bg); }
.site-title a { color: var(--fg); text-decoration: none; }
.content { margin-left: var(--sidebar-width); padding: 2rem 3rem; max-width: 960px; }
pre.chroma { padding: 1rem; border-radius: 6px; overflow-x: auto; }
code { font-family: "JetBrains Mono", "Fira Code", Menlo, monospace; font-size: 0.9rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid var(--muted); padding: 0.3rem 0.6rem; }
`

// reloadScript reconnects to /ws/reload and reloads the page on a reload
// message.
const reloadScript = `<script>
(function() {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws/reload");
  ws.onmessage = function(ev) {
    try {
      if (JSON.parse(ev.data).type === "reload") { location.reload(); }
    } catch (e) {}
  };
})();
</script>
`
