package occ

import (
	"testing"
)

const resultsPageHTML = `<html><body>
<a id="resultados|card|98765" href="/empresas/candidatos/cv/98765">
	<div>
		<div><img src="avatar.png"/></div>
		<div>
			<p>Ingeniero de Datos</p>
			<div><svg class="atomic__location"></svg><p>Ciudad de México</p></div>
			<div><span>Disponible</span></div>
			<div><p>Ingeniero de Datos</p><p>Ene 2022 a Actualidad</p></div>
			<div><p>Analista de Datos</p><p>2019 a 2021</p></div>
			<div><p>Licenciatura</p><p>UNAM</p></div>
		</div>
	</div>
</a>
<a href="/empresas/candidatos/cv/11111">
	<div>
		<div><img src="avatar.png"/></div>
		<div><p>Contador</p></div>
	</div>
</a>
<a href="/empresas/otra-cosa">ignorado</a>
</body></html>`

func TestParseCardHTML(t *testing.T) {
	stubs := parseCardHTML(resultsPageHTML)
	if len(stubs) != 2 {
		t.Fatalf("got %d stubs, want 2", len(stubs))
	}

	full := stubs[0]
	if full.ID != "98765" {
		t.Errorf("id = %q, want trailing piece of the card id attribute", full.ID)
	}
	if full.URL != "https://www.occ.com.mx/empresas/candidatos/cv/98765" {
		t.Errorf("url = %q", full.URL)
	}
	if full.Position != "Ingeniero de Datos" {
		t.Errorf("position = %q", full.Position)
	}
	if full.Location != "Ciudad de México" {
		t.Errorf("location = %q", full.Location)
	}
	if full.Name != "" {
		t.Errorf("listing cards carry no name, got %q", full.Name)
	}
	if len(full.Experience) != 2 {
		t.Fatalf("experience rows: %d, want 2", len(full.Experience))
	}
	if full.Experience[0].Position != "Ingeniero de Datos" || full.Experience[0].StartDate != "Ene 2022 a Actualidad" {
		t.Errorf("first experience row: %+v", full.Experience[0])
	}
	if full.Education != "Licenciatura - UNAM" {
		t.Errorf("education = %q", full.Education)
	}

	sparse := stubs[1]
	if sparse.ID != "" {
		t.Errorf("card without id attribute should yield none, got %q", sparse.ID)
	}
	if sparse.Position != "Contador" {
		t.Errorf("sparse position = %q", sparse.Position)
	}
}

func TestParseCardHTMLEmptyPage(t *testing.T) {
	if stubs := parseCardHTML(`<html><body><p>Sin resultados</p></body></html>`); len(stubs) != 0 {
		t.Errorf("got %d stubs from an empty results page", len(stubs))
	}
}

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/empresas/candidatos/cv/1", "https://www.occ.com.mx/empresas/candidatos/cv/1"},
		{"https://www.occ.com.mx/empresas/candidatos/cv/2", "https://www.occ.com.mx/empresas/candidatos/cv/2"},
	}
	for _, tc := range cases {
		if got := absoluteURL(tc.in); got != tc.want {
			t.Errorf("absoluteURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
