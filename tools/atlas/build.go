package main

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/depp/atlaskit/lib/getpath"
	"github.com/depp/atlaskit/lib/manifest"
)

var flagBuildPNG string

var cmdBuild = cobra.Command{
	Use:   "build <manifest.toml> <output.atlas>",
	Short: "Pack the sprites and fonts in a manifest into an atlas file.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		filein := getpath.GetPath(args[0])
		fileout := getpath.GetPath(args[1])
		if ext := filepath.Ext(filein); !strings.EqualFold(ext, ".toml") {
			logrus.Warn("manifest does not have .toml extension")
		}
		m, err := manifest.ReadFile(filein, logrus.StandardLogger())
		if err != nil {
			return &fileError{filein, err}
		}
		reg, mem, err := newRegistry()
		if err != nil {
			return err
		}
		h, err := manifest.Build(reg, m, logrus.StandardLogger())
		if err != nil {
			return &fileError{filein, err}
		}
		if err := reg.SaveFile(h, fileout); err != nil {
			return &fileError{fileout, err}
		}
		if flagBuildPNG != "" {
			tex, _ := reg.Texture(h)
			if err := mem.ExportPNG(tex, getpath.GetPath(flagBuildPNG)); err != nil {
				return &fileError{flagBuildPNG, err}
			}
		}
		w, ht, _ := reg.Size(h)
		logrus.WithFields(logrus.Fields{"width": w, "height": ht}).Info("wrote ", fileout)
		return nil
	},
}

func init() {
	cmdBuild.Flags().StringVar(&flagBuildPNG, "png", "", "also write the packed texture to `file`")
}
