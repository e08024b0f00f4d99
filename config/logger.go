package config

import "github.com/spf13/viper"

// Logger logger config struct
type Logger struct {
	Level           string
	Format          string
	Output          string
	OutputFile      string
	Desensitization bool
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:           v.GetString("logger.level"),
		Format:          v.GetString("logger.format"),
		Output:          v.GetString("logger.output"),
		OutputFile:      v.GetString("logger.output_file"),
		Desensitization: v.GetBool("logger.desensitization"),
	}
}
