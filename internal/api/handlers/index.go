package handlers

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Análisis ABC de Repuestos</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem;color:#0f172a}
label{display:block;margin-top:.75rem}
</style>
</head>
<body>
<h1>Análisis ABC de Repuestos - SAP</h1>
<p>Sistema de análisis de materiales críticos</p>
<form method="post" action="/report" enctype="multipart/form-data">
<label>Archivo Excel de SAP (hojas ZMM009, MB51 y SC)
<input type="file" name="workbook" accept=".xlsx" required></label>
<label>Gerencia <input type="text" name="owning_unit" required></label>
<label>Tipo Material <input type="text" name="material_type" required></label>
<label>Área Solicitante
<select name="requesting_area">
{{range .Areas}}<option value="{{.}}">{{.}}</option>
{{end}}</select></label>
<p><button type="submit">Procesar Datos</button></p>
</form>
</body>
</html>
`))
