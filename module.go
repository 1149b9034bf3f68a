package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/pontaoski/kaleido/parser"
	"gopkg.in/yaml.v2"
	"tlog.app/go/errors"
)

const moduleInfoFile = "Kaleido Module Information"

const sourceExt = ".kal"

type kaleidoModule struct {
	Package    string         `yaml:"Package"`
	Sources    []string       `yaml:"Sources,omitempty"`
	Precedence map[string]int `yaml:"Precedence,omitempty"`
}

func readModuleInfo(path string) (doc kaleidoModule, err error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return kaleidoModule{}, errors.Wrap(err, "reading %s", path)
	}

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return kaleidoModule{}, errors.Wrap(err, "parsing %s", path)
	}

	return doc, nil
}

// readModuleInfoIfAny is readModuleInfo, but a missing file yields an empty
// module.
func readModuleInfoIfAny(path string) (kaleidoModule, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return kaleidoModule{}, nil
	}
	return readModuleInfo(path)
}

func writeModuleInfo(path string, doc kaleidoModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding module information")
	}

	err = ioutil.WriteFile(path, out, 0644)
	if err != nil {
		return errors.Wrap(err, "writing %s", path)
	}

	return nil
}

// precedence merges the module's operator table over the default one.
func (m kaleidoModule) precedence() (parser.Precedence, error) {
	prec := parser.DefaultPrecedence()

	for op, p := range m.Precedence {
		runes := []rune(op)
		if len(runes) != 1 {
			return nil, errors.New("precedence: operator %q is not a single character", op)
		}
		prec[runes[0]] = p
	}

	return prec, nil
}

// sources returns the explicit file list, or every source file in dir.
func (m kaleidoModule) sources(dir string) ([]string, error) {
	if len(m.Sources) > 0 {
		return m.Sources, nil
	}

	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing %s", dir)
	}

	var files []string
	for _, fi := range fis {
		if !fi.IsDir() && filepath.Ext(fi.Name()) == sourceExt {
			files = append(files, filepath.Join(dir, fi.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}
