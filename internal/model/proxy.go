package model

type ProxyAuth struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Proxy struct {
	Protocol string     `json:"protocol" validate:"required"`
	Host     string     `json:"host" validate:"required"`
	Port     int        `json:"port" validate:"min=1,max=65535"`
	Auth     *ProxyAuth `json:"auth,omitempty"`
}

func (p Proxy) Validate() error {
	return validate.Struct(p)
}
