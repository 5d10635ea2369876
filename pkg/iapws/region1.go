package iapws

import "math"

// Region 1 reducing constants.
const (
	p1star = 16.53  // MPa
	t1star = 1386.0 // K
)

var (
	i1 = [34]float64{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 8, 8, 21, 23, 29, 30, 31, 32,
	}
	j1 = [34]float64{
		-2, -1, 0, 1, 2, 3, 4, 5, -9, -7, -1, 0, 1, 3, -3, 0, 1, 3, 17, -4, 0, 6, -5, -2, 10, -8, -11, -6, -29, -31, -38, -39, -40, -41,
	}
	n1 = [34]float64{
		0.14632971213167,
		-0.84548187169114,
		-0.37563603672040e1,
		0.33855169168385e1,
		-0.95791963387872,
		0.15772038513228,
		-0.16616417199501e-1,
		0.81214629983568e-3,
		0.28319080123804e-3,
		-0.60706301565874e-3,
		-0.18990068218419e-1,
		-0.32529748770505e-1,
		-0.21841717175414e-1,
		-0.52838357969930e-4,
		-0.47184321073267e-3,
		-0.30001780793026e-3,
		0.47661393906987e-4,
		-0.44141845330846e-5,
		-0.72694996297594e-15,
		-0.31679644845054e-4,
		-0.28270797985312e-5,
		-0.85205128120103e-9,
		-0.22425281908000e-5,
		-0.65171222895601e-6,
		-0.14341729937924e-12,
		-0.40516996860117e-6,
		-0.12734301741641e-8,
		-0.17424871230634e-9,
		-0.68762131295531e-18,
		0.14478307828521e-19,
		0.26335781662795e-22,
		-0.11947622640071e-22,
		0.18228094581404e-23,
		-0.93537087292458e-25,
	}
)

// region1 evaluates the region 1 basic equation at p in MPa and t in K.
func region1(p, t float64) State {
	pi := p / p1star
	tau := t1star / t
	a := 7.1 - pi
	b := tau - 1.222

	var g, gPi, gTau float64
	for k := range n1 {
		g += n1[k] * math.Pow(a, i1[k]) * math.Pow(b, j1[k])
		gPi -= n1[k] * i1[k] * math.Pow(a, i1[k]-1) * math.Pow(b, j1[k])
		gTau += n1[k] * math.Pow(a, i1[k]) * j1[k] * math.Pow(b, j1[k]-1)
	}

	rt := R * t
	return State{
		Region:     1,
		P:          p,
		T:          t,
		V:          rt / (p * 1000) * pi * gPi,
		H:          rt * tau * gTau,
		S:          R * (tau*gTau - g),
		U:          rt * (tau*gTau - pi*gPi),
		HasQuality: p < Pc,
	}
}
