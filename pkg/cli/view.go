package cli

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/risk"
)

type homeView struct {
	Version        string
	Commit         string
	BuildDate      string
	Values         url.Values
	CreatinineUnit string
	NadirUnit      string
	Assessment     *risk.Assessment
	Err            string
}

func (s *server) homeViewHandler(w http.ResponseWriter, r *http.Request) {
	d := s.defaults()
	v := homeView{
		Version:        version,
		Commit:         commit,
		BuildDate:      date,
		Values:         r.URL.Query(),
		CreatinineUnit: string(d.CreatinineUnit),
		NadirUnit:      string(d.NadirUnit),
	}

	if u, err := risk.ParseUnit(v.Values.Get(form.FieldCreatinineUnit)); err == nil {
		v.CreatinineUnit = string(u)
	}
	if u, err := risk.ParseUnit(v.Values.Get(form.FieldNadirUnit)); err == nil {
		v.NadirUnit = string(u)
	}

	if len(v.Values) > 0 {
		a, err := s.assess(v.Values, d)
		if err != nil {
			v.Err = err.Error()
		} else {
			v.Assessment = &a
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "home", v); err != nil {
		slog.Error("template render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *server) assess(values url.Values, d form.Defaults) (risk.Assessment, error) {
	req, err := form.FromValues(values)
	if err != nil {
		return risk.Assessment{}, err
	}
	in, err := req.Input(d)
	if err != nil {
		return risk.Assessment{}, err
	}
	return risk.Evaluate(in), nil
}
