package config

const (
	defaultRootDir          = "~/astrophotography"
	defaultCatalogPath      = "~/.local/share/astrofiler/catalog.json"
	defaultEquipmentDB      = "~/.local/share/astrofiler/equipment.db"
	defaultLogDir           = "~/.local/share/astrofiler/logs"
	defaultLightPattern     = "Lights/{TARGET}/{DATE}/{CAMERA}_{FILTER}_{SUBLENGTH}s_{GAIN}g"
	defaultDarkPattern      = "Darks/{CAMERA}/{GAIN}g_{CAMERATEMP}C_{SUBLENGTH}s"
	defaultBiasPattern      = "Bias/{CAMERA}/{GAIN}g"
	defaultFlatPattern      = "Flats/{CAMERA}/{DATE}/{FILTER}"
	defaultLightSession     = "Light/{FILTER}"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultMinFreeGiB       = 1
	defaultImportPattern    = "**/*.{fits,fit,fts,FITS,FIT,cr2,CR2,cr3,CR3,nef,NEF,arw,ARW,raf,RAF,tif,tiff,TIF,TIFF}"
	rootDirEnvironmentKey   = "ASTROFILER_ROOT"
	defaultConfigPathValue  = "~/.config/astrofiler/config.toml"
	projectConfigPathValue  = "astrofiler.toml"
	defaultLogFileName      = "astrofiler.log"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir:     defaultRootDir,
			CatalogPath: defaultCatalogPath,
			EquipmentDB: defaultEquipmentDB,
			LogDir:      defaultLogDir,
		},
		Patterns: Patterns{
			Light:        defaultLightPattern,
			Dark:         defaultDarkPattern,
			Bias:         defaultBiasPattern,
			Flat:         defaultFlatPattern,
			LightSession: defaultLightSession,
		},
		Classify: Classify{
			MinFreeGiB:    defaultMinFreeGiB,
			ImportPattern: defaultImportPattern,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
